package search

import (
	"context"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// Exact returns the anagrams of query, in display order.
// A query without letters yields no results.
func (e *Engine) Exact(ctx context.Context, query string) ([]Entry, error) {
	key := alphabet.Letters(alphabet.Normalize(query))
	if len(key) == 0 {
		return nil, nil
	}
	alphabet.SortLetters(key)

	lookup, err := e.prober(ctx)
	if err != nil {
		return nil, err
	}
	words, err := lookup(key)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, newEntry(w))
	}
	sortByDisplay(entries)
	return entries, nil
}
