// Package pattern compiles the positional query language used by pattern search.
//
// A pattern is a sequence of literal letters, '.' or '?' (exactly one letter) and '*'
// (zero or more letters), optionally followed by constraint groups:
//
//	+LETTERS   the word must contain each named letter at least as often as it is named
//	-LETTERS   the word must not contain any named letter
//	:N         the word must have exactly N tiles
//	,RACK      the letters not fixed by the pattern must come from RACK ('?' is a blank)
//
// Letters fold digraphs greedily, so "RR" is the RR tile. A parenthesized letter such as
// "(C)(H)" or "(ll)" is always a single tile. An empty positional part matches any word.
//
// Fixed letters are supplied by the board and never consume rack tiles.
package pattern

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

// MaxBlanks is the largest number of '?' tiles a rack may hold.
const MaxBlanks = 2

// ErrMalformed is returned by Compile for patterns that cannot be parsed.
var ErrMalformed = errors.New("malformed pattern")

// Kind classifies a positional token.
type Kind uint8

const (
	// Literal matches one fixed letter.
	Literal Kind = iota
	// Any matches exactly one letter.
	Any
	// Star matches zero or more letters.
	Star
)

// Token is one element of the positional pattern.
type Token struct {
	Kind   Kind
	Letter alphabet.Letter
}

func (t Token) String() string {
	switch t.Kind {
	case Any:
		return "."
	case Star:
		return "*"
	default:
		return string(t.Letter.Rune())
	}
}

// Pattern is a compiled query. It is immutable and safe for concurrent use.
type Pattern struct {
	raw      string
	tokens   []Token
	length   int
	required alphabet.Counts
	excluded [alphabet.Size]bool
	literals alphabet.Counts
	rack     alphabet.Counts
	hasRack  bool
	blanks   int
	minLen   int
	maxLen   int
}

// Raw returns the source text the pattern was compiled from.
func (p *Pattern) Raw() string { return p.raw }

// Tokens returns a copy of the positional tokens.
func (p *Pattern) Tokens() []Token {
	out := make([]Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Length returns the fixed tile length, or 0 when none was given.
func (p *Pattern) Length() int { return p.length }

// Rack returns the rack letters and whether a rack was given.
func (p *Pattern) Rack() (alphabet.Counts, bool) { return p.rack, p.hasRack }

// Blanks returns the number of blank tiles in the rack.
func (p *Pattern) Blanks() int { return p.blanks }

// Required returns the minimum multiplicity of each required letter.
func (p *Pattern) Required() alphabet.Counts { return p.required }

// Excluded reports whether l was excluded.
func (p *Pattern) Excluded(l alphabet.Letter) bool { return l.Valid() && p.excluded[l] }

// Literals returns the multiset of fixed letters in the positional pattern.
func (p *Pattern) Literals() alphabet.Counts { return p.literals }

// MinLen returns the shortest tile length the pattern can match.
func (p *Pattern) MinLen() int { return p.minLen }

// MaxLen returns the longest tile length the pattern can match, or -1 when unbounded.
func (p *Pattern) MaxLen() int { return p.maxLen }

// LiteralPrefix returns the canonical letters every match must start with.
func (p *Pattern) LiteralPrefix() string {
	var b strings.Builder
	for _, t := range p.tokens {
		if t.Kind != Literal {
			break
		}
		b.WriteRune(t.Letter.Rune())
	}
	return b.String()
}

// Impossible reports whether the constraints contradict each other, in which case
// no word can match.
func (p *Pattern) Impossible() bool {
	if p.length > 0 && (p.length < p.minLen || (p.maxLen >= 0 && p.length > p.maxLen)) {
		return true
	}
	for _, l := range alphabet.All() {
		if p.excluded[l] && (p.required[l] > 0 || p.literals[l] > 0) {
			return true
		}
	}
	return false
}

// Key returns a canonical rendering of the compiled pattern. Patterns that accept the
// same words under the same rack share a key.
func (p *Pattern) Key() string {
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteString(t.String())
	}
	if p.required.Len() > 0 {
		b.WriteByte('+')
		b.WriteString(p.required.String())
	}
	var ex []alphabet.Letter
	for _, l := range alphabet.All() {
		if p.excluded[l] {
			ex = append(ex, l)
		}
	}
	if len(ex) > 0 {
		b.WriteByte('-')
		b.WriteString(alphabet.String(ex))
	}
	if p.length > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.length))
	}
	if p.hasRack {
		b.WriteByte(',')
		b.WriteString(p.rack.String())
		b.WriteString(strings.Repeat(string(alphabet.Blank), p.blanks))
	}
	return b.String()
}

func (p *Pattern) String() string { return p.Key() }
