// Package alphabet defines the canonical Spanish tile alphabet used by every search.
//
// Each tile, the digraphs CH, LL and RR included, occupies exactly one internal symbol:
// CH is stored as 'Ç', LL as 'K' and RR as 'W'. Words kept in internal form ("canonical")
// have one rune per tile, so rune counts are tile counts.
//
// Two orders exist over the alphabet. The display order is the Spanish Scrabble order
// (A B C CH D ... L LL M N Ñ ... R RR S ... Z) and is what Letter values follow, so
// comparing letters numerically is display collation. The collation order (vowels first)
// is only used to build alphagrams.
package alphabet

import (
	"fmt"
	"strings"
)

// Letter is a tile of the canonical alphabet, numbered in display order.
type Letter uint8

// Size is the number of tiles in the canonical alphabet.
const Size = 28

const (
	A Letter = iota
	B
	C
	CH
	D
	E
	F
	G
	H
	I
	J
	L
	LL
	M
	N
	Enye
	O
	P
	Q
	R
	RR
	S
	T
	U
	V
	X
	Y
	Z
)

// Internal runes that stand for the digraph tiles.
const (
	InternalCH = 'Ç'
	InternalLL = 'K'
	InternalRR = 'W'
)

// Blank is the raw rune for a blank tile in racks and queries.
const Blank = '?'

var internal = [Size]rune{
	'A', 'B', 'C', InternalCH, 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'L', InternalLL, 'M',
	'N', 'Ñ', 'O', 'P', 'Q', 'R', InternalRR, 'S', 'T', 'U', 'V', 'X', 'Y', 'Z',
}

// collation is the alphagram order: vowels first, then consonants in game order.
const collation = "AEIOUBCÇDFGHJLKMNÑPQRWSTVXYZ"

var (
	letterOf = func() map[rune]Letter {
		m := make(map[rune]Letter, Size)
		for i, r := range internal {
			m[r] = Letter(i)
		}
		return m
	}()

	// rank[l] is the collation position of l.
	rank = func() [Size]uint8 {
		var out [Size]uint8
		for i, r := range []rune(collation) {
			out[letterOf[r]] = uint8(i)
		}
		return out
	}()

	// byRank lists the letters in collation order.
	byRank = func() [Size]Letter {
		var out [Size]Letter
		for i, r := range []rune(collation) {
			out[i] = letterOf[r]
		}
		return out
	}()

	digraphs = map[Letter]string{CH: "CH", LL: "LL", RR: "RR"}
)

// All returns every letter in display order.
func All() []Letter {
	out := make([]Letter, Size)
	for i := range out {
		out[i] = Letter(i)
	}
	return out
}

// Valid reports whether l is a letter of the alphabet.
func (l Letter) Valid() bool {
	return l < Size
}

// Rune returns the internal one-rune form of l.
func (l Letter) Rune() rune {
	return internal[l]
}

// String returns the display form of l, expanding digraphs.
func (l Letter) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Letter(%d)", uint8(l))
	}
	if d, ok := digraphs[l]; ok {
		return d
	}
	return string(internal[l])
}

// IsDigraph reports whether l is one of CH, LL or RR.
func (l Letter) IsDigraph() bool {
	_, ok := digraphs[l]
	return ok
}

// Rank returns the collation position of l, used for alphagrams.
func (l Letter) Rank() int {
	return int(rank[l])
}

// ParseLetter maps an internal rune to its letter.
func ParseLetter(r rune) (Letter, bool) {
	l, ok := letterOf[r]
	return l, ok
}

// ParseTile maps a display tile ("A", "CH", "Ñ", ...) to its letter.
func ParseTile(tile string) (Letter, bool) {
	tile = strings.ToUpper(tile)
	for l, d := range digraphs {
		if d == tile {
			return l, true
		}
	}
	rs := []rune(tile)
	if len(rs) != 1 {
		return 0, false
	}
	l, ok := letterOf[rs[0]]
	if !ok || l.IsDigraph() {
		return 0, false
	}
	return l, true
}

// Letters converts a canonical string to letters, skipping unknown runes.
func Letters(canonical string) []Letter {
	out := make([]Letter, 0, len(canonical))
	for _, r := range canonical {
		if l, ok := letterOf[r]; ok {
			out = append(out, l)
		}
	}
	return out
}

// String renders letters in internal form.
func String(letters []Letter) string {
	var b strings.Builder
	b.Grow(len(letters) * 2)
	for _, l := range letters {
		b.WriteRune(internal[l])
	}
	return b.String()
}

// Display renders letters in display form.
func Display(letters []Letter) string {
	var b strings.Builder
	for _, l := range letters {
		b.WriteString(l.String())
	}
	return b.String()
}

// Tiles splits a canonical string into display tiles.
func Tiles(canonical string) []string {
	letters := Letters(canonical)
	out := make([]string, len(letters))
	for i, l := range letters {
		out[i] = l.String()
	}
	return out
}

// Len returns the tile count of a canonical string.
func Len(canonical string) int {
	n := 0
	for _, r := range canonical {
		if _, ok := letterOf[r]; ok {
			n++
		}
	}
	return n
}
