package pattern

import (
	"errors"
	"slices"
	"testing"

	"github.com/bastiangx/tileserve/pkg/alphabet"
)

func TestCompile(t *testing.T) {
	testCases := []struct {
		raw    string
		key    string
		minLen int
		maxLen int
		desc   string
	}{
		{"C*A:5", "C*A:5", 2, -1, "prefix star suffix with length"},
		{"+RR-Z:6", ".*+W-Z:6", 1, -1, "only constraints"},
		{"", ".*", 1, -1, "empty pattern matches one or more letters"},
		{"ch.rro", "Ç.WO", 4, 4, "digraphs fold greedily"},
		{"(C)(H)A", "CHA", 3, 3, "parenthesized tiles do not fold"},
		{"(ll)a?a", "KA.A", 4, 4, "parenthesized digraph"},
		{"a**b", "A*B", 2, -1, "consecutive stars collapse"},
		{"+R+R", ".*+RR", 1, -1, "required multiplicity accumulates"},
		{"+(R)(R)", ".*+RR", 1, -1, "parenthesized single R twice"},
		{"casa,ab?", "CASA,AB?", 4, 4, "rack with a blank"},
		{"c a s a", "CASA", 4, 4, "spaces are ignored"},
		{"+a-a", ".*+A-A", 1, -1, "required and excluded is well formed"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := Compile(tc.raw)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tc.raw, err)
			}
			if p.Key() != tc.key {
				t.Errorf("Key = %q, want %q", p.Key(), tc.key)
			}
			if p.MinLen() != tc.minLen || p.MaxLen() != tc.maxLen {
				t.Errorf("MinLen, MaxLen = %d, %d; want %d, %d", p.MinLen(), p.MaxLen(), tc.minLen, tc.maxLen)
			}
		})
	}
}

func TestCompileMalformed(t *testing.T) {
	testCases := []struct {
		raw  string
		desc string
	}{
		{"CASA+", "empty required group"},
		{"-:5", "empty excluded group"},
		{"C*A:", "length without number"},
		{"C*A:0", "zero length"},
		{"C*A:x", "non numeric length"},
		{"C:5A", "length not at the end"},
		{"(CH", "unclosed parenthesis"},
		{"CH)", "stray closing parenthesis"},
		{"()A", "empty parenthesis"},
		{"(CA)", "two tiles in parenthesis"},
		{"C1A", "digit in pattern"},
		{"CASA,???", "three blanks"},
		{"CASA,A:5", "operator in rack"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Compile(tc.raw)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Compile(%q) err = %v, want ErrMalformed", tc.raw, err)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	p := MustCompile("cha*o+rr+a-z:6,ab?")

	if got := p.LiteralPrefix(); got != "ÇA" {
		t.Errorf("LiteralPrefix = %q, want %q", got, "ÇA")
	}
	if p.Length() != 6 {
		t.Errorf("Length = %d", p.Length())
	}
	req := p.Required()
	if req[alphabet.RR] != 1 || req[alphabet.A] != 1 || req.Len() != 2 {
		t.Errorf("Required = %s", req)
	}
	if !p.Excluded(alphabet.Z) || p.Excluded(alphabet.A) {
		t.Error("Excluded mismatch")
	}
	rack, ok := p.Rack()
	if !ok || rack.String() != "AB" || p.Blanks() != 1 {
		t.Errorf("Rack = %s, %v, blanks %d", rack, ok, p.Blanks())
	}
	if p.Literals().String() != alphabet.Alphagram("ÇAO") {
		t.Errorf("Literals = %s", p.Literals())
	}
	if len(p.Tokens()) != 4 {
		t.Errorf("Tokens = %v", p.Tokens())
	}
	if MustCompile("*A").LiteralPrefix() != "" {
		t.Error("leading star should give an empty prefix")
	}
}

func TestMatch(t *testing.T) {
	testCases := []struct {
		pattern string
		word    string
		filled  []int
		ok      bool
	}{
		{"C*A", "CASA", []int{1, 2}, true},
		{"C*A", "CA", nil, true},
		{"C*A", "CASO", nil, false},
		{"?A?A", "CASA", []int{0, 2}, true},
		{"CH.RRO", "CHARRO", []int{1}, true},
		{"C.RRO", "CHARRO", nil, false},
		{"*A*", "AA", []int{0}, true},
		{"", "A", []int{0}, true},
		{"LL*", "LLAMA", []int{1, 2, 3}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern+"/"+tc.word, func(t *testing.T) {
			p := MustCompile(tc.pattern)
			filled, ok := p.Match(alphabet.Letters(alphabet.Normalize(tc.word)))
			if ok != tc.ok {
				t.Fatalf("Match ok = %v, want %v", ok, tc.ok)
			}
			if ok && !slices.Equal(filled, tc.filled) {
				t.Errorf("filled = %v, want %v", filled, tc.filled)
			}
		})
	}
}

func TestAccepts(t *testing.T) {
	testCases := []struct {
		pattern string
		word    string
		want    bool
		desc    string
	}{
		{"C*A:5", "CARTA", true, "five tiles C..A"},
		{"C*A:5", "CASA", false, "too short"},
		{"C*A:5", "CHARCA", false, "starts with CH, not C"},
		{"+RR-Z:6", "CARRETA", true, "RR present, six tiles"},
		{"+RR-Z:6", "CARETA", false, "single R is not RR"},
		{"+RR-Z:6", "ZORRAS", false, "contains Z"},
		{"+R+R", "RARO", true, "two single R"},
		{"+R+R", "RATO", false, "only one R"},
		{"+a-a", "CASA", false, "required and excluded never matches"},
		{"casa:5", "CASA", false, "length contradicts literals"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p := MustCompile(tc.pattern)
			if _, ok := p.Accepts(alphabet.Normalize(tc.word)); ok != tc.want {
				t.Errorf("%q accepts %q = %v, want %v", tc.pattern, tc.word, ok, tc.want)
			}
		})
	}
}

// Fixed letters come from the board; only wildcard positions draw on the rack.
func TestRackFixedLettersAreFree(t *testing.T) {
	testCases := []struct {
		pattern string
		word    string
		want    bool
		desc    string
	}{
		{"C*A,SA", "CASA", true, "rack covers the starred letters"},
		{"C*A,S", "CASA", false, "rack is missing an A"},
		{"C*A,S?", "CASA", true, "blank covers the missing A"},
		{"CASA,", "CASA", true, "empty rack means no rack"},
		{"CASA,Z", "CASA", true, "all fixed letters need no rack tiles"},
		{"*,CAS", "CASA", false, "fully wild word must come from the rack"},
		{"*,CAS?", "CASA", true, "blank completes a fully wild word"},
		{"*,??", "AL", true, "two blanks alone"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p := MustCompile(tc.pattern)
			if _, ok := p.Accepts(alphabet.Normalize(tc.word)); ok != tc.want {
				t.Errorf("%q accepts %q = %v, want %v", tc.pattern, tc.word, ok, tc.want)
			}
		})
	}
}

func TestImpossible(t *testing.T) {
	if !MustCompile("+a-a").Impossible() {
		t.Error("+a-a should be impossible")
	}
	if !MustCompile("casa:5").Impossible() {
		t.Error("casa:5 should be impossible")
	}
	if !MustCompile("ca-a").Impossible() {
		t.Error("excluded fixed letter should be impossible")
	}
	if MustCompile("c*a:5").Impossible() {
		t.Error("c*a:5 should be possible")
	}
}

func BenchmarkMatch(b *testing.B) {
	p := MustCompile("C*R*A")
	word := alphabet.Letters(alphabet.Normalize("CARRETERA"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Match(word)
	}
}
