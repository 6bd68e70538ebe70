package search

import (
	"slices"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// Entry is one result word with its provenance.
type Entry struct {
	// Word is the display form.
	Word      string
	Canonical string
	// Length counts tiles, so CHORRO has length 4.
	Length int
	// Extra is the tile added by a plus-one search.
	Extra string
	// Blanks lists the tiles substituted for blanks, in query order.
	Blanks []string
	// Filled holds the tile positions matched by pattern wildcards.
	Filled []int
}

func newEntry(canonical string) Entry {
	return Entry{
		Word:      alphabet.Denormalize(canonical),
		Canonical: canonical,
		Length:    alphabet.Len(canonical),
	}
}

// Words returns the display words of entries.
func Words(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

// Group holds the pattern matches of one length.
type Group struct {
	Length  int
	Entries []Entry
}

// Groups are pattern results in ascending length.
type Groups []Group

// Len returns the total number of entries.
func (g Groups) Len() int {
	n := 0
	for _, grp := range g {
		n += len(grp.Entries)
	}
	return n
}

// Entries flattens the groups.
func (g Groups) Entries() []Entry {
	out := make([]Entry, 0, g.Len())
	for _, grp := range g {
		out = append(out, grp.Entries...)
	}
	return out
}

func groupByLength(entries []Entry) Groups {
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Length != b.Length {
			return a.Length - b.Length
		}
		return alphabet.Compare(a.Canonical, b.Canonical)
	})
	var groups Groups
	for start := 0; start < len(entries); {
		end := start
		for end < len(entries) && entries[end].Length == entries[start].Length {
			end++
		}
		groups = append(groups, Group{Length: entries[start].Length, Entries: entries[start:end:end]})
		start = end
	}
	return groups
}
