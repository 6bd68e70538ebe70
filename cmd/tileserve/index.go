package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/tileserve/internal/utils"
	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/bastiangx/tileserve/pkg/dictionary"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringP("out", "o", "", "snapshot path (default dict.snapshot)")
	indexCmd.Flags().String("db", "", "fallback database path (default dict.fallback_db)")
	indexCmd.Flags().Bool("no-db", false, "skip building the fallback database")
	indexCmd.Flags().Int("chunk-size", 0, "also export the lexicon as dict_NNNN.bin chunks of this many words")
	indexCmd.Flags().String("chunk-dir", "", "directory for exported chunks")
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "build the lexicon snapshot and fallback database from the word lists",
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	flags := cmd.Flags()

	start := time.Now()
	lex, stats, err := dictionary.NewLoader(a.cfg.Dict.MaxWordsValidation).LoadDir(ctx, a.cfg.Dict.Dir)
	if err != nil {
		return fmt.Errorf("failed to read word lists: %w", err)
	}
	fmt.Printf("Read %d words from %d files, %d distinct\n", stats.Read, stats.Files, stats.Words)

	out, _ := flags.GetString("out")
	if out == "" {
		out = a.cfg.Dict.Snapshot
	}
	if err := writeSnapshot(out, lex); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Printf("Snapshot written to %s\n", out)

	if noDB, _ := flags.GetBool("no-db"); !noDB {
		db, _ := flags.GetString("db")
		if db == "" {
			db = a.cfg.Dict.FallbackDB
		}
		if db != "" {
			n, err := populateStore(ctx, db, lex)
			if err != nil {
				return fmt.Errorf("failed to build fallback database: %w", err)
			}
			fmt.Printf("Fallback database %s holds %d words\n", db, n)
		}
	}

	if size, _ := flags.GetInt("chunk-size"); size > 0 {
		dir, _ := flags.GetString("chunk-dir")
		if dir == "" {
			return fmt.Errorf("--chunk-dir is required with --chunk-size")
		}
		n, err := writeChunks(dir, lex, size)
		if err != nil {
			return fmt.Errorf("failed to export chunks: %w", err)
		}
		fmt.Printf("Exported %d chunks to %s\n", n, dir)
	}

	fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// writeSnapshot writes to a temporary file and renames it over path, so readers
// never see a partial snapshot.
func writeSnapshot(path string, lex *lexicon.Lexicon) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := dictionary.WriteSnapshot(tmp, lex); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func populateStore(ctx context.Context, path string, lex *lexicon.Lexicon) (int, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return 0, err
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer st.Close()
	return st.Populate(ctx, lex.AllWords())
}

// writeChunks exports the words in display form, size words per file.
func writeChunks(dir string, lex *lexicon.Lexicon, size int) (int, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return 0, err
	}
	words := lex.AllWords()
	alphabet.Sort(words)

	n := 0
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunk := make([]string, 0, end-start)
		for _, w := range words[start:end] {
			chunk = append(chunk, alphabet.Denormalize(w))
		}

		n++
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", n)))
		if err != nil {
			return n - 1, err
		}
		if err := dictionary.WriteChunk(f, chunk); err != nil {
			f.Close()
			return n - 1, err
		}
		if err := f.Close(); err != nil {
			return n - 1, err
		}
	}
	return n, nil
}
