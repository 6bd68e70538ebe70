package alphabet

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var digraphPairs = map[[2]rune]Letter{
	{'C', 'H'}: CH,
	{'L', 'L'}: LL,
	{'R', 'R'}: RR,
}

// Normalize converts raw user input into canonical internal form.
//
// Input is uppercased and diacritics are dropped (Á -> A, Ü -> U) except on Ñ and Ç.
// Characters that are not tiles are dropped first, then CH, LL and RR fold into their
// internal runes greedily from the left. Runes already in internal form are kept.
// The result never holds a foldable pair, so Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	var rs []rune
	for _, r := range fold(raw) {
		if _, ok := letterOf[r]; ok {
			rs = append(rs, r)
		}
	}
	var b strings.Builder
	b.Grow(len(rs) * 2)
	for i := 0; i < len(rs); i++ {
		if i+1 < len(rs) {
			if l, ok := digraphPairs[[2]rune{rs[i], rs[i+1]}]; ok {
				b.WriteRune(l.Rune())
				i++
				continue
			}
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// fold uppercases and strips combining marks from everything but Ñ and Ç.
func fold(raw string) string {
	upper := strings.ToUpper(raw)
	plain := true
	for _, r := range upper {
		if r >= utf8.RuneSelf && r != 'Ñ' && r != InternalCH {
			plain = false
			break
		}
	}
	if plain {
		return upper
	}

	// transform chains carry state, so each call builds its own.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	var b strings.Builder
	for _, r := range upper {
		if r < utf8.RuneSelf || r == 'Ñ' || r == InternalCH {
			b.WriteRune(r)
			continue
		}
		s, _, err := transform.String(strip, string(r))
		if err != nil {
			continue
		}
		b.WriteString(strings.ToUpper(s))
	}
	return b.String()
}

// Denormalize expands the internal digraph runes back into two-letter sequences.
func Denormalize(canonical string) string {
	var b strings.Builder
	b.Grow(len(canonical) + 4)
	for _, r := range canonical {
		if l, ok := letterOf[r]; ok && l.IsDigraph() {
			b.WriteString(digraphs[l])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collationKey is the alphagram sort key of r; unknown runes sort last.
func collationKey(r rune) int {
	if l, ok := letterOf[r]; ok {
		return int(rank[l])
	}
	return Size
}

// Alphagram sorts the runes of a canonical string into collation order.
func Alphagram(canonical string) string {
	rs := []rune(canonical)
	slices.SortStableFunc(rs, func(a, b rune) int {
		return cmp.Compare(collationKey(a), collationKey(b))
	})
	return string(rs)
}

// SortLetters sorts letters into collation order in place.
func SortLetters(letters []Letter) {
	slices.SortFunc(letters, func(a, b Letter) int {
		return cmp.Compare(rank[a], rank[b])
	})
}

func displayKey(r rune) int {
	if l, ok := letterOf[r]; ok {
		return int(l)
	}
	return Size
}

// Compare orders two canonical strings by display collation; a proper prefix sorts first.
func Compare(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if c := cmp.Compare(displayKey(ra), displayKey(rb)); c != 0 {
			return c
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

// Sort sorts canonical words by display collation.
func Sort(words []string) {
	slices.SortFunc(words, Compare)
}

// ParseRack normalizes a raw rack, counting '?' runes as blanks.
func ParseRack(raw string) ([]Letter, int) {
	return Letters(Normalize(raw)), strings.Count(raw, string(Blank))
}
