package search

import (
	"context"
	"fmt"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// Blanks returns the words formed by base plus k blank tiles. Each word carries the
// substitution that first produced it. k outside [0, MaxBlanks] yields no results.
func (e *Engine) Blanks(ctx context.Context, base string, k int) ([]Entry, error) {
	if k < 0 || k > e.opts.MaxBlanks {
		return nil, nil
	}
	if k == 0 {
		return e.Exact(ctx, base)
	}

	key := alphabet.Letters(alphabet.Normalize(base))
	if len(key) == 0 {
		return nil, nil
	}
	alphabet.SortLetters(key)

	lookup, err := e.prober(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var entries []Entry
	collect := func(subst ...alphabet.Letter) error {
		words, err := lookup(withLetter(key, subst...))
		if err != nil {
			return fmt.Errorf("blanks %s: %w", alphabet.Display(subst), err)
		}
		for _, w := range words {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			entry := newEntry(w)
			entry.Blanks = make([]string, len(subst))
			for i, l := range subst {
				entry.Blanks[i] = l.String()
			}
			entries = append(entries, entry)
		}
		return nil
	}

	letters := alphabet.All()
	for i, l1 := range letters {
		if k == 1 {
			if err := collect(l1); err != nil {
				return nil, err
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// pairs with L2 before L1 probe an alphagram an earlier pair already claimed.
		for _, l2 := range letters[i:] {
			if err := collect(l1, l2); err != nil {
				return nil, err
			}
		}
	}
	sortByDisplay(entries)
	return entries, nil
}

// BlankQuery parses a raw query such as "A?A", counting '?' as blanks, and runs Blanks.
func (e *Engine) BlankQuery(ctx context.Context, raw string) ([]Entry, error) {
	letters, k := alphabet.ParseRack(raw)
	return e.Blanks(ctx, alphabet.String(letters), k)
}
