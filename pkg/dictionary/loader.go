// Package dictionary reads word lists and lexicon snapshots from disk and publishes the
// built lexicon to searches once it is ready.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/bastiangx/tileserve/internal/logger"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoWordLists is returned when a directory holds no readable word list.
var ErrNoWordLists = errors.New("no word lists found")

// Loader reads dictionary files.
type Loader struct {
	maxChunkWords int
	concurrency   int
	log           *log.Logger
}

// LoadStats provides statistics about a load
type LoadStats struct {
	Files   int
	Read    int
	Words   int
	Elapsed time.Duration
}

// NewLoader creates a loader. maxChunkWords bounds chunk headers; zero selects
// DefaultMaxChunkWords.
func NewLoader(maxChunkWords int) *Loader {
	if maxChunkWords <= 0 {
		maxChunkWords = DefaultMaxChunkWords
	}
	return &Loader{
		maxChunkWords: maxChunkWords,
		concurrency:   runtime.GOMAXPROCS(0),
		log:           logger.New("loader"),
	}
}

// ListFiles returns the word list files (text and chunk) in dir, sorted by name.
func (l *Loader) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".txt", ".bin":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// ReadFile reads one text or chunk word list.
func (l *Loader) ReadFile(path string) ([]string, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case FormatText:
		return ReadText(f)
	case FormatChunk:
		return ReadChunk(f, l.maxChunkWords)
	default:
		return nil, fmt.Errorf("%s is a %s, not a word list", path, format)
	}
}

// ReadDir reads every word list in dir concurrently and returns the words in file order.
func (l *Loader) ReadDir(ctx context.Context, dir string) ([]string, LoadStats, error) {
	start := time.Now()
	files, err := l.ListFiles(dir)
	if err != nil {
		return nil, LoadStats{}, err
	}
	if len(files) == 0 {
		return nil, LoadStats{}, fmt.Errorf("%w in %s", ErrNoWordLists, dir)
	}

	results := make([][]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			words, err := l.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
			l.log.Debugf("Read %d words from %s", len(words), filepath.Base(path))
			results[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LoadStats{}, err
	}

	var words []string
	for _, r := range results {
		words = append(words, r...)
	}
	return words, LoadStats{Files: len(files), Read: len(words), Elapsed: time.Since(start)}, nil
}

// LoadDir builds a lexicon from every word list in dir.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*lexicon.Lexicon, LoadStats, error) {
	start := time.Now()
	words, stats, err := l.ReadDir(ctx, dir)
	if err != nil {
		return nil, stats, err
	}
	b := lexicon.New()
	stats.Words = b.InsertAll(words)
	lex := b.Build()
	stats.Elapsed = time.Since(start)
	l.log.Infof("Loaded %d words from %d files in %s", stats.Words, stats.Files, stats.Elapsed.Round(time.Millisecond))
	return lex, stats, nil
}

// LoadSnapshot reads a lexicon snapshot file.
func (l *Loader) LoadSnapshot(path string) (*lexicon.Lexicon, error) {
	if err := ValidateFileFormat(path, FormatSnapshot); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	lex, err := ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	l.log.Infof("Loaded snapshot with %d words in %s", lex.Len(), time.Since(start).Round(time.Millisecond))
	return lex, nil
}

// Load prefers the snapshot when one exists and falls back to the word lists in dir.
// A snapshot that exists but fails to decode is an error.
func (l *Loader) Load(ctx context.Context, dir, snapshot string) (*lexicon.Lexicon, error) {
	if snapshot != "" {
		_, err := os.Stat(snapshot)
		switch {
		case err == nil:
			return l.LoadSnapshot(snapshot)
		case errors.Is(err, fs.ErrNotExist):
			l.log.Debugf("No snapshot at %s, reading word lists", snapshot)
		default:
			return nil, err
		}
	}
	lex, _, err := l.LoadDir(ctx, dir)
	return lex, err
}
