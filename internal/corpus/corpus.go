// Package corpus finds reference audio files and mirrors their layout into a dataset tree.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrNoAudioFiles = errors.New("no audio files found")
	// ErrStemCollision is reported for a file whose mirrored directory already belongs to another file.
	ErrStemCollision = errors.New("another file maps to the same directory")
)

// DefaultExtensions are discovered when none are given.
//
//nolint:gochecknoglobals // default value
var DefaultExtensions = []string{"wav", "flac"}

// File is a discovered audio file.
type File struct {
	// Abs is the absolute path of the file.
	Abs string
	// Rel is the path relative to the discovery root.
	Rel string
}

// Stem is the relative path without extension. It names the file's directory in a mirrored tree.
func (f File) Stem() string {
	return strings.TrimSuffix(f.Rel, filepath.Ext(f.Rel))
}

// Discover walks root recursively and returns files whose extension matches one of extensions, ignoring case.
// Results are sorted by relative path.
func Discover(root string, extensions []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", root, ErrNotDirectory)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var files []File

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, File{Abs: path, Rel: rel})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Rel, b.Rel)
	})

	return files, nil
}

// Mirror creates one directory per file under newRoot, named after the file's relative path without extension.
// It returns the directories in file order. Stems are compared ignoring case: a file whose directory was already
// claimed by an earlier file, e.g. a.flac after a.wav, gets an empty directory and an ErrStemCollision at its index
// in collisions, which is nil when every file has its own directory.
func Mirror(files []File, newRoot string) (dirs []string, collisions []error, err error) {
	dirs = make([]string, len(files))
	claimed := make(map[string]string, len(files))

	for idx, file := range files {
		key := strings.ToLower(file.Stem())
		if owner, ok := claimed[key]; ok {
			if collisions == nil {
				collisions = make([]error, len(files))
			}

			collisions[idx] = fmt.Errorf("%w: %s and %s", ErrStemCollision, file.Rel, owner)

			continue
		}

		claimed[key] = file.Rel

		dir := filepath.Join(newRoot, file.Stem())
		if err = os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // dataset directories are shared
			return nil, nil, fmt.Errorf("mirroring %s: %w", file.Rel, err)
		}

		dirs[idx] = dir
	}

	return dirs, collisions, nil
}

// RateFunc reports the sample rate of an audio file.
type RateFunc func(ctx context.Context, path string) (int, error)

// FilterSampleRates keeps the files whose sample rate is one of rates. An empty rates keeps everything.
// Files whose rate cannot be determined are dropped and reported through the returned errors.
func FilterSampleRates(ctx context.Context, files []File, rates []int, rateOf RateFunc) ([]File, []error) {
	if len(rates) == 0 {
		return files, nil
	}

	var (
		kept []File
		errs []error
	)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return kept, append(errs, err)
		}

		rate, err := rateOf(ctx, file.Abs)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file.Rel, err))

			continue
		}

		if slices.Contains(rates, rate) {
			kept = append(kept, file)
		}
	}

	return kept, errs
}

// Limit returns at most n files. A non-positive n keeps everything.
func Limit(files []File, n int) []File {
	if n <= 0 || len(files) <= n {
		return files
	}

	return files[:n]
}
