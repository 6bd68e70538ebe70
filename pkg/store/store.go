// Package store keeps the word list in a SQLite table so exact-match queries can be
// answered before the in-memory lexicon has finished loading.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/bastiangx/tileserve/internal/logger"
	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/charmbracelet/log"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	tableWords     = "words"
	colWord        = "word"
	colLength      = "length"
	colAlphagram   = "alphagram"
	insertBatch    = 400
	driverName     = "sqlite"
	inMemoryMarker = ":memory:"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS words (
    word      TEXT    PRIMARY KEY,
    length    INTEGER NOT NULL,
    alphagram TEXT    NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS words_length_alphagram ON words (length, alphagram)`,
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a SQLite backed exact-match word store. Words are kept canonical.
type Store struct {
	db  *sql.DB
	sb  squirrel.StatementBuilderType
	log *log.Logger
}

// Open connects to the database at dsn and applies the schema.
// An in-memory dsn is pinned to a single connection so every query sees the same data.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	if strings.Contains(dsn, inMemoryMarker) || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", dsn, err)
	}

	s := &Store{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		log: logger.New("store"),
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the words table and its index when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Populate replaces the stored words with words, in a single transaction.
// Words are normalized first; those without letters are skipped and duplicates kept once.
// It returns the number of rows stored.
func (s *Store) Populate(ctx context.Context, words []string) (int, error) {
	err := s.runInTx(ctx, func(tx *sql.Tx) error {
		del, args, err := s.sb.Delete(tableWords).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return fmt.Errorf("clear words: %w", err)
		}

		for start := 0; start < len(words); start += insertBatch {
			end := min(start+insertBatch, len(words))
			if err := s.insertBatch(ctx, tx, words[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store: populate: %w", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Stored %d words", n)
	return n, nil
}

func (s *Store) insertBatch(ctx context.Context, tx *sql.Tx, words []string) error {
	insert := s.sb.Insert(tableWords).
		Options("OR IGNORE").
		Columns(colWord, colLength, colAlphagram)

	rows := 0
	for _, w := range words {
		canonical := alphabet.Normalize(w)
		if canonical == "" {
			continue
		}
		insert = insert.Values(canonical, alphabet.Len(canonical), alphabet.Alphagram(canonical))
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert words: %w", err)
	}
	return nil
}

// runInTx executes fn within a transaction, rolling back when fn fails or panics.
func (s *Store) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LookupAlphagram returns the canonical words whose alphagram is alphagram, sorted by
// display order.
func (s *Store) LookupAlphagram(ctx context.Context, alphagram string) ([]string, error) {
	query, args, err := s.sb.Select(colWord).
		From(tableWords).
		Where(squirrel.Eq{colLength: alphabet.Len(alphagram), colAlphagram: alphagram}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "lookup", alphagram)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, mapError(err, "lookup", alphagram)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "lookup", alphagram)
	}
	alphabet.Sort(words)
	return words, nil
}

// Contains reports whether the canonical word is stored.
func (s *Store) Contains(ctx context.Context, word string) (bool, error) {
	query, args, err := s.sb.Select("1").
		From(tableWords).
		Where(squirrel.Eq{colWord: word}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, mapError(err, "contains", word)
	}
	return true, nil
}

// Count returns the number of stored words.
func (s *Store) Count(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(tableWords).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err, "count", "")
	}
	return n, nil
}

// mapError wraps driver errors with the operation. Context errors pass through.
func mapError(err error, op, key string) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("store: %s %q: %w", op, key, ErrClosed)
	}
	return fmt.Errorf("store: %s %q: %w", op, key, err)
}
