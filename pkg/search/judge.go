package search

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/bastiangx/tileserve/pkg/lexicon"
)

// maxSuggestDistance is the largest edit distance, in tiles, of a suggestion.
const maxSuggestDistance = 2

// Judgement is the verdict on one word.
type Judgement struct {
	Word        string
	Valid       bool
	Suggestions []string
}

// Verdict is the result of judging a play: every word must be valid.
type Verdict struct {
	Words    []Judgement
	AllValid bool
}

// Judge validates every word in text, splitting on anything that is not a letter.
// Invalid words get up to Suggestions near misses when the lexicon is loaded.
// Text without words is not a valid play.
func (e *Engine) Judge(ctx context.Context, text string) (Verdict, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })

	lex, lexErr := e.src.Lexicon()
	verdict := Verdict{AllValid: true}
	for _, f := range fields {
		canonical := alphabet.Normalize(f)
		if canonical == "" {
			continue
		}
		valid, err := e.IsMember(ctx, canonical)
		if err != nil {
			return Verdict{}, err
		}
		j := Judgement{Word: alphabet.Denormalize(canonical), Valid: valid}
		if !valid {
			verdict.AllValid = false
			if lexErr == nil {
				j.Suggestions = suggest(lex, canonical, e.opts.Suggestions)
			}
		}
		verdict.Words = append(verdict.Words, j)
	}
	if len(verdict.Words) == 0 {
		verdict.AllValid = false
	}
	return verdict, nil
}

// suggest returns the closest words by tile edit distance among words one tile shorter,
// equal or one tile longer. Ties keep display order.
func suggest(lex *lexicon.Lexicon, canonical string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	type match struct {
		word string
		dist int
	}

	n := alphabet.Len(canonical)
	var matches []match
	for length := n - 1; length <= n+1; length++ {
		for _, w := range lex.ByLength(length) {
			// canonical strings hold one rune per tile
			if d := levenshtein.ComputeDistance(canonical, w); d <= maxSuggestDistance {
				matches = append(matches, match{word: w, dist: d})
			}
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return alphabet.Compare(a.word, b.word)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = alphabet.Denormalize(m.word)
	}
	return out
}
