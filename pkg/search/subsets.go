package search

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// SubMultisets yields every distinct sub-multiset of rack whose size lies in [lo, hi],
// longest first. Repeated tiles in the rack never produce a candidate twice because the
// enumeration runs over per-letter counts rather than tile positions.
func SubMultisets(rack alphabet.Counts, lo, hi int) iter.Seq[alphabet.Counts] {
	return func(yield func(alphabet.Counts) bool) {
		var letters []alphabet.Letter
		var caps []int
		for _, l := range alphabet.All() {
			if rack[l] > 0 {
				letters = append(letters, l)
				caps = append(caps, int(rack[l]))
			}
		}
		k := len(letters)
		if k == 0 {
			return
		}
		hi = min(hi, rack.Len())
		lo = max(lo, 0)

		// room[i] is how many tiles positions i.. can still take.
		room := make([]int, k+1)
		for i := k - 1; i >= 0; i-- {
			room[i] = room[i+1] + caps[i]
		}

		v := make([]int, k)
		// fill spreads n tiles over positions from..k-1, leftmost first.
		fill := func(from, n int) {
			for i := from; i < k; i++ {
				v[i] = min(caps[i], n)
				n -= v[i]
			}
		}
		emit := func() bool {
			var c alphabet.Counts
			for i, n := range v {
				c[letters[i]] = uint8(n)
			}
			return yield(c)
		}

		for size := hi; size >= lo; size-- {
			fill(0, size)
			if !emit() {
				return
			}
			// Step to the next vector in decreasing lexicographic order: take one tile
			// from the rightmost position whose suffix has room, then refill the suffix.
			for {
				i := k - 2
				suffix := v[k-1]
				for ; i >= 0; i-- {
					if v[i] > 0 && room[i+1]-suffix > 0 {
						break
					}
					suffix += v[i]
				}
				if i < 0 {
					break
				}
				v[i]--
				fill(i+1, suffix+1)
				if !emit() {
					return
				}
			}
		}
	}
}

// Subsets returns the words that can be formed from a strict subset of the rack, of at
// least MinSubsetLength tiles. Results run from the longest length down, in display order
// within a length.
func (e *Engine) Subsets(ctx context.Context, rack string) ([]Entry, error) {
	letters := alphabet.Letters(alphabet.Normalize(rack))
	n := len(letters)
	if n == 0 {
		return nil, nil
	}
	if n > e.opts.MaxRack {
		return nil, fmt.Errorf("%w: %d tiles, at most %d", ErrRackTooLong, n, e.opts.MaxRack)
	}

	lookup, err := e.prober(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var entries []Entry
	for sub := range SubMultisets(alphabet.CountsOf(letters), e.opts.MinSubsetLength, n-1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words, err := lookup(sub.Alphagram())
		if err != nil {
			return nil, fmt.Errorf("subsets %s: %w", sub, err)
		}
		for _, w := range words {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			entry := newEntry(w)
			if entry.Length >= n {
				continue
			}
			entries = append(entries, entry)
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Length != b.Length {
			return b.Length - a.Length
		}
		return alphabet.Compare(a.Canonical, b.Canonical)
	})
	return entries, nil
}
