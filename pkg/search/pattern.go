package search

import (
	"context"

	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/pattern"
	"github.com/charmbracelet/log"
)

// scanCheckEvery is how many candidates a scan examines between context checks.
const scanCheckEvery = 1024

// Pattern compiles raw and returns the matching words grouped by length. Compile errors
// wrap pattern.ErrMalformed. Pattern search needs the lexicon and never uses the
// fallback store.
func (e *Engine) Pattern(ctx context.Context, raw string) (Groups, error) {
	p, err := pattern.Compile(raw)
	if err != nil {
		return nil, err
	}
	lex, err := e.src.Lexicon()
	if err != nil {
		return nil, err
	}

	key := p.Key()
	if g, ok := e.cache.Get(lex, key); ok {
		return g, nil
	}

	var entries []Entry
	switch {
	case p.Impossible():
	case hasRack(p):
		entries, err = Descend(ctx, lex, p)
	default:
		entries, err = Scan(ctx, lex, p)
	}
	if err != nil {
		return nil, err
	}

	groups := groupByLength(entries)
	e.cache.Add(lex, key, groups)
	log.Debugf("Pattern %q matched %d words", key, len(entries))
	return groups, nil
}

func hasRack(p *pattern.Pattern) bool {
	_, ok := p.Rack()
	return ok
}

func accept(p *pattern.Pattern, canonical string, out *[]Entry) {
	filled, ok := p.Accepts(canonical)
	if !ok {
		return
	}
	entry := newEntry(canonical)
	entry.Filled = filled
	*out = append(*out, entry)
}

// Scan is the filter strategy: it narrows candidates by fixed length or literal prefix
// when the pattern has one, and otherwise walks every word.
func Scan(ctx context.Context, lex *lexicon.Lexicon, p *pattern.Pattern) ([]Entry, error) {
	var entries []Entry
	n := 0
	check := func() error {
		n++
		if n%scanCheckEvery == 0 {
			return ctx.Err()
		}
		return nil
	}

	if length := p.Length(); length > 0 {
		for _, w := range lex.ByLength(length) {
			if err := check(); err != nil {
				return nil, err
			}
			accept(p, w, &entries)
		}
		return entries, nil
	}

	if prefix := p.LiteralPrefix(); prefix != "" {
		err := lex.VisitPrefix(prefix, func(w string) error {
			if err := check(); err != nil {
				return err
			}
			accept(p, w, &entries)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return entries, nil
	}

	for w := range lex.Words() {
		if err := check(); err != nil {
			return nil, err
		}
		accept(p, w, &entries)
	}
	return entries, nil
}

// Descend is the guided strategy for patterns with a rack. It walks the alphagram trie
// spending tiles from the rack plus the pattern's fixed letters, then blanks, so only
// words the rack can complete are ever visited. Without a rack it falls back to Scan.
func Descend(ctx context.Context, lex *lexicon.Lexicon, p *pattern.Pattern) ([]Entry, error) {
	rack, ok := p.Rack()
	if !ok {
		return Scan(ctx, lex, p)
	}
	pool := rack.Plus(p.Literals())
	limit := pool.Len() + p.Blanks()
	if l := p.Length(); l > 0 {
		limit = min(limit, l)
	} else if l := p.MaxLen(); l >= 0 {
		limit = min(limit, l)
	}

	var entries []Entry
	visited := 0
	var walk func(n lexicon.Node, depth, blanks int) error
	walk = func(n lexicon.Node, depth, blanks int) error {
		visited++
		if visited%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for _, w := range n.Words() {
			accept(p, w, &entries)
		}
		if depth == limit {
			return nil
		}
		for l, child := range n.Edges() {
			if p.Excluded(l) {
				continue
			}
			switch {
			case pool[l] > 0:
				pool[l]--
				err := walk(child, depth+1, blanks)
				pool[l]++
				if err != nil {
					return err
				}
			case blanks > 0:
				if err := walk(child, depth+1, blanks-1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(lex.Root(), 0, p.Blanks()); err != nil {
		return nil, err
	}
	return entries, nil
}
