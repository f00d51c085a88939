package codecbench

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// ManifestFile is written at the dataset root.
	ManifestFile = "manifest.json"
	// ReportFile holds one JSON record per item, gzip compressed.
	ReportFile = "build-report.jsonl.gz"
)

func writeManifest(root string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(root, ManifestFile), append(data, '\n'), 0o644); err != nil { //nolint:gosec // dataset files are shared
		return fmt.Errorf("writing manifest: %w", err)
	}

	return nil
}

// ReadManifest loads the manifest of a dataset root.
func ReadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestFile)) //nolint:gosec // user-provided dataset
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	return &manifest, nil
}

func writeReport(root string, records []Record) (err error) {
	path := filepath.Join(root, ReportFile)

	file, err := os.Create(path) //nolint:gosec // dataset files are shared
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	gzWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(gzWriter)

	for idx := range records {
		if err := enc.Encode(&records[idx]); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	return gzWriter.Close()
}

// ReadReport loads the records of a build report.
func ReadReport(root string) ([]Record, error) {
	file, err := os.Open(filepath.Join(root, ReportFile)) //nolint:gosec // user-provided dataset
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer gzReader.Close()

	var records []Record

	dec := json.NewDecoder(gzReader)
	for dec.More() {
		var record Record
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}

		records = append(records, record)
	}

	return records, nil
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
