package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farcloser/primordium/fault"
)

const (
	// InventoryFile is written at the root of a scanned directory.
	InventoryFile = "metadata.csv"
	// ScoresFile is written next to the pair table that was scored.
	ScoresFile = "visqol_scores.csv"
	// ScoreColumn holds the MOS-LQO of a pair.
	ScoreColumn = "VISQOL_Scores"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidRow    = errors.New("invalid row")
)

//nolint:gochecknoglobals // table layouts
var (
	infoColumns      = []string{"sample_rate", "channels", "duration", "format", "subtype"}
	pairColumns      = append(append([]string{"enc_path", "ref_path"}, infoColumns...), "encoder")
	inventoryColumns = append([]string{"abs_path", "rel_path"}, infoColumns...)
	scoreColumns     = append(append([]string{}, pairColumns...), ScoreColumn)
)

// PairFile names the pair table of a dataset built at bitrate (bits per second).
func PairFile(bitrate int) string {
	return fmt.Sprintf("metadata_bitrate=%d.csv", bitrate/1000)
}

// Pair is a decoded file and the reference it was produced from. Info describes the decoded file.
type Pair struct {
	EncPath string
	RefPath string
	Info    Info
	// Encoder is the base name of EncPath without extension.
	Encoder string
}

// NewPair builds a pair, deriving the encoder name from the decoded file name.
func NewPair(encPath, refPath string, info Info) Pair {
	base := filepath.Base(encPath)

	return Pair{
		EncPath: encPath,
		RefPath: refPath,
		Info:    info,
		Encoder: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Entry is one row of a directory inventory.
type Entry struct {
	AbsPath string
	RelPath string
	Info    Info
}

// Scored is a pair with its quality score.
type Scored struct {
	Pair
	Score float64
}

func (i Info) record() []string {
	return []string{
		strconv.Itoa(i.SampleRate),
		strconv.Itoa(i.Channels),
		strconv.FormatFloat(i.Duration, 'f', -1, 64),
		i.Format,
		i.Subtype,
	}
}

func (p Pair) record() []string {
	row := append([]string{p.EncPath, p.RefPath}, p.Info.record()...)

	return append(row, p.Encoder)
}

// WritePairs writes the pair table.
func WritePairs(path string, pairs []Pair) error {
	rows := make([][]string, len(pairs))
	for i, pair := range pairs {
		rows[i] = pair.record()
	}

	return writeTable(path, pairColumns, rows)
}

// WriteInventory writes a directory inventory table.
func WriteInventory(path string, entries []Entry) error {
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		rows[i] = append([]string{entry.AbsPath, entry.RelPath}, entry.Info.record()...)
	}

	return writeTable(path, inventoryColumns, rows)
}

// WriteScores writes the pair table extended with the score column.
func WriteScores(path string, scored []Scored) error {
	rows := make([][]string, len(scored))
	for i, row := range scored {
		rows[i] = append(row.record(), strconv.FormatFloat(row.Score, 'f', -1, 64))
	}

	return writeTable(path, scoreColumns, rows)
}

// ReadPairs parses a pair table. Columns are located by header name, extra columns are ignored.
func ReadPairs(path string) ([]Pair, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(table.rows))

	for line, row := range table.rows {
		pair, err := table.pair(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line+2, err)
		}

		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// ReadScores parses a score table.
func ReadScores(path string) ([]Scored, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}

	scoreIdx, err := table.column(ScoreColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	scored := make([]Scored, 0, len(table.rows))

	for line, row := range table.rows {
		pair, err := table.pair(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line+2, err)
		}

		score, err := strconv.ParseFloat(row[scoreIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w: score %q", path, line+2, ErrInvalidRow, row[scoreIdx])
		}

		scored = append(scored, Scored{Pair: pair, Score: score})
	}

	return scored, nil
}

func writeTable(path string, header []string, rows [][]string) (err error) {
	file, err := os.Create(path) //nolint:gosec // table location is derived from the dataset tree
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}

		if err != nil {
			_ = os.Remove(path)
		}
	}()

	writer := csv.NewWriter(file)

	if err = writer.Write(header); err != nil {
		return err
	}

	if err = writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(path string) (*table, error) {
	file, err := os.Open(path) //nolint:gosec // user-provided table
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidRow, path)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	return &table{index: index, rows: rows}, nil
}

func (t *table) column(name string) (int, error) {
	idx, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}

	return idx, nil
}

// pair decodes a row. Only enc_path and ref_path are mandatory.
func (t *table) pair(row []string) (Pair, error) {
	encIdx, err := t.column("enc_path")
	if err != nil {
		return Pair{}, err
	}

	refIdx, err := t.column("ref_path")
	if err != nil {
		return Pair{}, err
	}

	pair := NewPair(row[encIdx], row[refIdx], Info{})

	if idx, ok := t.index["encoder"]; ok && row[idx] != "" {
		pair.Encoder = row[idx]
	}

	if idx, ok := t.index["format"]; ok {
		pair.Info.Format = row[idx]
	}

	if idx, ok := t.index["subtype"]; ok {
		pair.Info.Subtype = row[idx]
	}

	for name, target := range map[string]*int{"sample_rate": &pair.Info.SampleRate, "channels": &pair.Info.Channels} {
		idx, ok := t.index[name]
		if !ok || row[idx] == "" {
			continue
		}

		if *target, err = strconv.Atoi(row[idx]); err != nil {
			return Pair{}, fmt.Errorf("%w: %s %q", ErrInvalidRow, name, row[idx])
		}
	}

	if idx, ok := t.index["duration"]; ok && row[idx] != "" {
		if pair.Info.Duration, err = strconv.ParseFloat(row[idx], 64); err != nil {
			return Pair{}, fmt.Errorf("%w: duration %q", ErrInvalidRow, row[idx])
		}
	}

	return pair, nil
}
