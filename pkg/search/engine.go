// Package search answers anagram, blank, sub-rack and pattern queries over a lexicon.
//
// Every search is a pure function of the query and the lexicon snapshot it reads, so an
// Engine can be shared between goroutines. While no lexicon is available the alphagram
// based searches are answered from an optional Fallback store; pattern search always
// needs the lexicon.
package search

import (
	"context"
	"errors"
	"slices"

	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/pattern"
	"github.com/charmbracelet/log"
)

// ErrRackTooLong is returned when a sub-rack query exceeds the configured rack size.
var ErrRackTooLong = errors.New("rack too long")

// Source yields the current lexicon, or lexicon.ErrUnavailable while none is loaded.
type Source interface {
	Lexicon() (*lexicon.Lexicon, error)
}

// Fallback is an exact-match store keyed by alphagram. Words are canonical.
type Fallback interface {
	LookupAlphagram(ctx context.Context, alphagram string) ([]string, error)
	Contains(ctx context.Context, word string) (bool, error)
}

type static struct{ lex *lexicon.Lexicon }

func (s static) Lexicon() (*lexicon.Lexicon, error) {
	if s.lex == nil {
		return nil, lexicon.ErrUnavailable
	}
	return s.lex, nil
}

// Static wraps an already built lexicon as a Source.
func Static(lex *lexicon.Lexicon) Source {
	return static{lex: lex}
}

// Options tune the engine. Zero values select the defaults, except CacheSize where
// zero disables the pattern cache.
type Options struct {
	MinSubsetLength int
	MaxBlanks       int
	MaxRack         int
	CacheSize       int
	Suggestions     int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MinSubsetLength: 2,
		MaxBlanks:       pattern.MaxBlanks,
		MaxRack:         15,
		CacheSize:       256,
		Suggestions:     3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinSubsetLength <= 0 {
		o.MinSubsetLength = d.MinSubsetLength
	}
	if o.MaxBlanks <= 0 || o.MaxBlanks > pattern.MaxBlanks {
		o.MaxBlanks = d.MaxBlanks
	}
	if o.MaxRack <= 0 {
		o.MaxRack = d.MaxRack
	}
	if o.CacheSize < 0 {
		o.CacheSize = 0
	}
	if o.Suggestions < 0 {
		o.Suggestions = 0
	}
	return o
}

// Engine runs searches against a Source and an optional Fallback.
type Engine struct {
	src      Source
	fallback Fallback
	opts     Options
	cache    *Cache
}

// NewEngine creates an engine. fallback may be nil.
func NewEngine(src Source, fallback Fallback, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		src:      src,
		fallback: fallback,
		opts:     opts,
		cache:    NewCache(opts.CacheSize),
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Ready reports whether the lexicon is loaded.
func (e *Engine) Ready() bool {
	_, err := e.src.Lexicon()
	return err == nil
}

// CacheStats returns pattern cache counters.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}

// probe looks up one alphagram, given as letters in collation order.
type probe func(key []alphabet.Letter) ([]string, error)

// prober picks the lexicon when loaded, else the fallback store.
func (e *Engine) prober(ctx context.Context) (probe, error) {
	lex, err := e.src.Lexicon()
	if err == nil {
		return func(key []alphabet.Letter) ([]string, error) {
			return lex.LookupLetters(key), nil
		}, nil
	}
	if e.fallback == nil {
		return nil, err
	}
	log.Debug("Lexicon not ready, using fallback store")
	return func(key []alphabet.Letter) ([]string, error) {
		return e.fallback.LookupAlphagram(ctx, alphabet.String(key))
	}, nil
}

// IsMember reports whether word is in the lexicon, asking the fallback store while the
// lexicon is loading.
func (e *Engine) IsMember(ctx context.Context, word string) (bool, error) {
	canonical := alphabet.Normalize(word)
	if canonical == "" {
		return false, nil
	}
	lex, err := e.src.Lexicon()
	if err == nil {
		return lex.Contains(canonical), nil
	}
	if e.fallback == nil {
		return false, err
	}
	return e.fallback.Contains(ctx, canonical)
}

// withLetter returns key plus l, kept in collation order.
func withLetter(key []alphabet.Letter, l ...alphabet.Letter) []alphabet.Letter {
	out := make([]alphabet.Letter, 0, len(key)+len(l))
	out = append(out, key...)
	out = append(out, l...)
	alphabet.SortLetters(out)
	return out
}

func sortByDisplay(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return alphabet.Compare(a.Canonical, b.Canonical)
	})
}
