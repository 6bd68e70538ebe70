package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// Compile parses raw into a Pattern. Errors wrap ErrMalformed.
func Compile(raw string) (*Pattern, error) {
	p := &Pattern{raw: raw}

	head, rackText, hasComma := strings.Cut(raw, ",")
	if hasComma {
		if err := p.parseRack(rackText); err != nil {
			return nil, err
		}
	}

	rs := []rune(head)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '.' || r == alphabet.Blank:
			p.tokens = append(p.tokens, Token{Kind: Any})
			i++
		case r == '*':
			if n := len(p.tokens); n == 0 || p.tokens[n-1].Kind != Star {
				p.tokens = append(p.tokens, Token{Kind: Star})
			}
			i++
		case r == '+' || r == '-':
			letters, next, err := parseGroup(rs, i+1)
			if err != nil {
				return nil, err
			}
			if len(letters) == 0 {
				return nil, fmt.Errorf("%w: %q at %d has no letters", ErrMalformed, r, i)
			}
			for _, l := range letters {
				if r == '+' {
					p.required[l]++
				} else {
					p.excluded[l] = true
				}
			}
			i = next
		case r == ':':
			n, err := strconv.Atoi(strings.TrimSpace(string(rs[i+1:])))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: length suffix %q", ErrMalformed, string(rs[i:]))
			}
			p.length = n
			i = len(rs)
		case r == '(':
			l, next, err := parseParen(rs, i)
			if err != nil {
				return nil, err
			}
			p.tokens = append(p.tokens, Token{Kind: Literal, Letter: l})
			i = next
		case r == ')':
			return nil, fmt.Errorf("%w: unbalanced ')' at %d", ErrMalformed, i)
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			for _, l := range alphabet.Letters(alphabet.Normalize(string(rs[i:j]))) {
				p.tokens = append(p.tokens, Token{Kind: Literal, Letter: l})
			}
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrMalformed, r, i)
		}
	}

	if len(p.tokens) == 0 {
		p.tokens = []Token{{Kind: Any}, {Kind: Star}}
	}
	p.measure()
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) parseRack(text string) error {
	if strings.ContainsAny(text, ",:+-*.") {
		return fmt.Errorf("%w: rack %q", ErrMalformed, text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	letters, blanks := alphabet.ParseRack(text)
	if blanks > MaxBlanks {
		return fmt.Errorf("%w: rack has %d blanks, at most %d allowed", ErrMalformed, blanks, MaxBlanks)
	}
	p.hasRack = true
	p.rack = alphabet.CountsOf(letters)
	p.blanks = blanks
	return nil
}

// parseGroup reads the letters of a '+' or '-' group starting at i. The group ends at the
// first rune that is neither a letter nor a parenthesized tile.
func parseGroup(rs []rune, i int) ([]alphabet.Letter, int, error) {
	var out []alphabet.Letter
	for i < len(rs) {
		switch r := rs[i]; {
		case r == '(':
			l, next, err := parseParen(rs, i)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, l)
			i = next
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			out = append(out, alphabet.Letters(alphabet.Normalize(string(rs[i:j])))...)
			i = j
		default:
			return out, i, nil
		}
	}
	return out, i, nil
}

// parseParen reads "(X)" at i, where X is exactly one tile.
func parseParen(rs []rune, i int) (alphabet.Letter, int, error) {
	end := -1
	for j := i + 1; j < len(rs); j++ {
		if rs[j] == ')' {
			end = j
			break
		}
		if rs[j] == '(' {
			break
		}
	}
	if end < 0 {
		return 0, 0, fmt.Errorf("%w: unbalanced '(' at %d", ErrMalformed, i)
	}
	inner := rs[i+1 : end]
	letters := alphabet.Letters(alphabet.Normalize(string(inner)))
	if len(letters) != 1 || !allLetters(inner) {
		return 0, 0, fmt.Errorf("%w: %q is not a single tile", ErrMalformed, string(rs[i:end+1]))
	}
	return letters[0], end + 1, nil
}

func allLetters(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(rs) > 0
}

func (p *Pattern) measure() {
	p.maxLen = 0
	for _, t := range p.tokens {
		switch t.Kind {
		case Literal:
			p.literals[t.Letter]++
			p.minLen++
		case Any:
			p.minLen++
		case Star:
			p.maxLen = -1
		}
	}
	if p.maxLen == 0 {
		p.maxLen = p.minLen
	}
}
