package search

import (
	"context"
	"fmt"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// PlusOne returns the words formed by the query letters plus one more tile. Words already
// formable from the query alone are left out, and a word reachable through several
// letters is reported once, tagged with the first letter in alphabet order.
func (e *Engine) PlusOne(ctx context.Context, query string) ([]Entry, error) {
	key := alphabet.Letters(alphabet.Normalize(query))
	if len(key) == 0 {
		return nil, nil
	}
	alphabet.SortLetters(key)

	lookup, err := e.prober(ctx)
	if err != nil {
		return nil, err
	}
	exact, err := lookup(key)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(exact))
	for _, w := range exact {
		seen[w] = struct{}{}
	}

	var entries []Entry
	for _, l := range alphabet.All() {
		words, err := lookup(withLetter(key, l))
		if err != nil {
			return nil, fmt.Errorf("plus one %s: %w", l, err)
		}
		for _, w := range words {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			entry := newEntry(w)
			entry.Extra = l.String()
			entries = append(entries, entry)
		}
	}
	sortByDisplay(entries)
	return entries, nil
}
