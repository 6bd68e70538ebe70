package alphabet

import (
	"testing"
)

func TestLetterTables(t *testing.T) {
	if len(All()) != Size {
		t.Fatalf("All() has %d letters, want %d", len(All()), Size)
	}
	seen := make(map[int]bool)
	for _, l := range All() {
		if seen[l.Rank()] {
			t.Errorf("rank %d assigned twice", l.Rank())
		}
		seen[l.Rank()] = true

		back, ok := ParseLetter(l.Rune())
		if !ok || back != l {
			t.Errorf("ParseLetter(%q) = %v, %v; want %v", l.Rune(), back, ok, l)
		}
	}
	if A.Rank() != 0 || E.Rank() != 1 || B.Rank() != 5 || Z.Rank() != Size-1 {
		t.Errorf("vowels must rank first: A=%d E=%d B=%d Z=%d", A.Rank(), E.Rank(), B.Rank(), Z.Rank())
	}
}

func TestLetterString(t *testing.T) {
	testCases := []struct {
		letter   Letter
		expected string
		digraph  bool
	}{
		{A, "A", false},
		{CH, "CH", true},
		{LL, "LL", true},
		{RR, "RR", true},
		{Enye, "Ñ", false},
		{Letter(200), "Letter(200)", false},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.letter.String(); got != tc.expected {
				t.Errorf("String() = %q, want %q", got, tc.expected)
			}
			if tc.letter.Valid() && tc.letter.IsDigraph() != tc.digraph {
				t.Errorf("IsDigraph() = %v, want %v", tc.letter.IsDigraph(), tc.digraph)
			}
		})
	}
}

func TestParseTile(t *testing.T) {
	testCases := []struct {
		tile string
		want Letter
		ok   bool
	}{
		{"a", A, true},
		{"ch", CH, true},
		{"LL", LL, true},
		{"Ñ", Enye, true},
		{"K", 0, false},
		{"AB", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.tile, func(t *testing.T) {
			got, ok := ParseTile(tc.tile)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("ParseTile(%q) = %v, %v; want %v, %v", tc.tile, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestTilesAndLen(t *testing.T) {
	canonical := Normalize("chorrillo")
	tiles := Tiles(canonical)
	want := []string{"CH", "O", "RR", "I", "LL", "O"}
	if len(tiles) != len(want) {
		t.Fatalf("Tiles = %v, want %v", tiles, want)
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Errorf("tile %d = %q, want %q", i, tiles[i], want[i])
		}
	}
	if Len(canonical) != 6 {
		t.Errorf("Len = %d, want 6", Len(canonical))
	}
	if Display(Letters(canonical)) != "CHORRILLO" {
		t.Errorf("Display = %q", Display(Letters(canonical)))
	}
}

func TestCounts(t *testing.T) {
	rack := CountsOfString("CASAS")
	word := CountsOfString("SACA")

	if rack.Len() != 5 {
		t.Errorf("Len = %d, want 5", rack.Len())
	}
	if !rack.Contains(word) {
		t.Error("CASAS should contain SACA")
	}
	if word.Contains(rack) {
		t.Error("SACA should not contain CASAS")
	}
	if got := word.Missing(rack); got != 1 {
		t.Errorf("Missing = %d, want 1", got)
	}
	if got := rack.Minus(word).String(); got != "S" {
		t.Errorf("Minus = %q, want %q", got, "S")
	}
	if got := word.Plus(CountsOf([]Letter{Z})).String(); got != "AACSZ" {
		t.Errorf("Plus = %q, want %q", got, "AACSZ")
	}
	if got := rack.String(); got != Alphagram("CASAS") {
		t.Errorf("Counts alphagram %q differs from Alphagram %q", got, Alphagram("CASAS"))
	}
}

func BenchmarkNormalize(b *testing.B) {
	inputs := []string{"chorrillo", "Ñandú", "pingüino", "casa", "LLAMARADA"}
	for i := 0; i < b.N; i++ {
		Normalize(inputs[i%len(inputs)])
	}
}
