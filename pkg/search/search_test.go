package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/pattern"
)

var fixture = []string{
	"casa", "saca", "asca", "cosa", "caso", "saco", "casas", "sacas", "casta", "causa",
	"cerca", "carta", "ala", "ama", "ana", "asa", "as", "al", "la", "chorro", "llama",
	"carreta", "barrera", "careta", "zorras", "perros", "charca",
}

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	return NewEngine(Static(lexicon.FromWords(fixture)), nil, DefaultOptions())
}

// fakeStore answers from an in-memory alphagram map.
type fakeStore struct {
	byAlphagram map[string][]string
	err         error
}

func newFakeStore(words []string) *fakeStore {
	f := &fakeStore{byAlphagram: make(map[string][]string)}
	for _, w := range words {
		c := alphabet.Normalize(w)
		a := alphabet.Alphagram(c)
		f.byAlphagram[a] = append(f.byAlphagram[a], c)
	}
	return f
}

func (f *fakeStore) LookupAlphagram(_ context.Context, alphagram string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAlphagram[alphagram], nil
}

func (f *fakeStore) Contains(_ context.Context, word string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return slices.Contains(f.byAlphagram[alphabet.Alphagram(word)], word), nil
}

func TestExact(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	testCases := []struct {
		query    string
		expected []string
	}{
		{"casa", []string{"ASCA", "CASA", "SACA"}},
		{"ASAC", []string{"ASCA", "CASA", "SACA"}},
		{"chorro", []string{"CHORRO"}},
		{"rrocho", []string{"CHORRO"}},
		{"zzz", []string{}},
		{"", []string{}},
		{"12 ?", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			got, err := e.Exact(ctx, tc.query)
			if err != nil {
				t.Fatalf("Exact: %v", err)
			}
			if w := Words(got); !slices.Equal(w, tc.expected) {
				t.Errorf("Exact(%q) = %v, want %v", tc.query, w, tc.expected)
			}
		})
	}
}

func TestExactAnagramInvariant(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	want, _ := e.Exact(ctx, "CASTA")
	for _, p := range []string{"TACAS", "ACTAS", "SACTA", "ATSAC"} {
		got, err := e.Exact(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(Words(got), Words(want)) {
			t.Errorf("Exact(%q) = %v, want %v", p, Words(got), Words(want))
		}
	}
}

func TestPlusOne(t *testing.T) {
	e := newTestEngine(t)
	got, err := e.PlusOne(context.Background(), "casa")
	if err != nil {
		t.Fatal(err)
	}

	want := []struct{ word, extra string }{
		{"CASAS", "S"}, {"CASTA", "T"}, {"CAUSA", "U"}, {"SACAS", "S"},
	}
	if len(got) != len(want) {
		t.Fatalf("PlusOne = %v, want %d entries", Words(got), len(want))
	}
	for i, w := range want {
		if got[i].Word != w.word || got[i].Extra != w.extra {
			t.Errorf("entry %d = %s+%s, want %s+%s", i, got[i].Word, got[i].Extra, w.word, w.extra)
		}
		if got[i].Length != 5 {
			t.Errorf("entry %d length = %d", i, got[i].Length)
		}
	}
}

func TestPlusOneDisjointFromExact(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, q := range []string{"casa", "al", "asa", "cas", "llam", "carret"} {
		exact, _ := e.Exact(ctx, q)
		plus, err := e.PlusOne(ctx, q)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range plus {
			if slices.Contains(Words(exact), p.Word) {
				t.Errorf("%q: %s in both exact and plus one", q, p.Word)
			}
		}
		seen := make(map[string]bool)
		for _, p := range plus {
			if seen[p.Word] {
				t.Errorf("%q: %s reported twice", q, p.Word)
			}
			seen[p.Word] = true
		}
	}
}

func TestBlanks(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	got, err := e.BlankQuery(ctx, "A?A")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ word, blank string }{
		{"ALA", "L"}, {"AMA", "M"}, {"ANA", "N"}, {"ASA", "S"},
	}
	if len(got) != len(want) {
		t.Fatalf("A?A = %v", Words(got))
	}
	for i, w := range want {
		if got[i].Word != w.word || !slices.Equal(got[i].Blanks, []string{w.blank}) {
			t.Errorf("entry %d = %s %v, want %s [%s]", i, got[i].Word, got[i].Blanks, w.word, w.blank)
		}
	}
}

func TestBlanksTwo(t *testing.T) {
	e := newTestEngine(t)
	got, err := e.Blanks(context.Background(), "AA", 2)
	if err != nil {
		t.Fatal(err)
	}
	if w := Words(got); !slices.Equal(w, []string{"ASCA", "CASA", "LLAMA", "SACA"}) {
		t.Fatalf("AA?? = %v", w)
	}
	for _, entry := range got {
		if entry.Word == "LLAMA" && !slices.Equal(entry.Blanks, []string{"LL", "M"}) {
			t.Errorf("LLAMA blanks = %v, want [LL M]", entry.Blanks)
		}
		if entry.Word == "CASA" && !slices.Equal(entry.Blanks, []string{"C", "S"}) {
			t.Errorf("CASA blanks = %v, want [C S]", entry.Blanks)
		}
	}
}

func TestBlanksOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, k := range []int{-1, 3, 10} {
		got, err := e.Blanks(ctx, "AA", k)
		if err != nil || len(got) != 0 {
			t.Errorf("Blanks(k=%d) = %v, %v; want empty", k, Words(got), err)
		}
	}
	got, _ := e.Blanks(ctx, "casa", 0)
	if !slices.Equal(Words(got), []string{"ASCA", "CASA", "SACA"}) {
		t.Errorf("Blanks(k=0) = %v", Words(got))
	}
}

func TestBlanksCoverPlusOne(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, q := range []string{"casa", "al", "as", "cas", "llam"} {
		plus, _ := e.PlusOne(ctx, q)
		blanks, err := e.Blanks(ctx, q, 1)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range plus {
			if !slices.Contains(Words(blanks), p.Word) {
				t.Errorf("%q: plus one word %s missing from blanks", q, p.Word)
			}
		}
	}
}

func TestSubsets(t *testing.T) {
	e := newTestEngine(t)
	got, err := e.Subsets(context.Background(), "casas")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ASCA", "CASA", "SACA", "ASA", "AS"}
	if w := Words(got); !slices.Equal(w, want) {
		t.Errorf("Subsets = %v, want %v", w, want)
	}

	rack := alphabet.CountsOfString(alphabet.Normalize("casas"))
	for _, entry := range got {
		if entry.Length >= 5 {
			t.Errorf("%s is not shorter than the rack", entry.Word)
		}
		if !rack.Contains(alphabet.CountsOfString(entry.Canonical)) {
			t.Errorf("%s is not drawn from the rack", entry.Word)
		}
	}
}

func TestSubsetsLimits(t *testing.T) {
	e := NewEngine(Static(lexicon.FromWords(fixture)), nil, Options{MaxRack: 4})
	ctx := context.Background()

	if _, err := e.Subsets(ctx, "casas"); !errors.Is(err, ErrRackTooLong) {
		t.Errorf("err = %v, want ErrRackTooLong", err)
	}
	got, err := e.Subsets(ctx, "a")
	if err != nil || len(got) != 0 {
		t.Errorf("single tile rack = %v, %v", Words(got), err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.Subsets(cancelled, "casa"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v", err)
	}
}

func TestSubMultisets(t *testing.T) {
	rack := alphabet.CountsOfString(alphabet.Normalize("casas"))
	seen := make(map[alphabet.Counts]bool)
	last := 5
	for sub := range SubMultisets(rack, 2, 4) {
		if seen[sub] {
			t.Errorf("%s yielded twice", sub)
		}
		seen[sub] = true
		if !rack.Contains(sub) {
			t.Errorf("%s not in rack", sub)
		}
		if sub.Len() > last {
			t.Errorf("%s yielded after a shorter candidate", sub)
		}
		last = sub.Len()
	}
	if len(seen) != 13 {
		t.Errorf("got %d sub-multisets, want 13", len(seen))
	}

	n := 0
	for range SubMultisets(rack, 0, 5) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early stop yielded %d", n)
	}

	all := 0
	for range SubMultisets(alphabet.CountsOfString("AAB"), 0, 3) {
		all++
	}
	if all != 6 {
		t.Errorf("AAB has %d sub-multisets, want 6", all)
	}
}

func TestIsMember(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for w, want := range map[string]bool{"casa": true, "Chorro": true, "CAS": false, "": false} {
		got, err := e.IsMember(ctx, w)
		if err != nil || got != want {
			t.Errorf("IsMember(%q) = %v, %v; want %v", w, got, err, want)
		}
	}
}

func TestMembershipAgreesWithExact(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	for _, w := range []string{"C-HORRO", "c h o r r o", "l.l.a.m.a", "chor-ro", "C-ASA"} {
		member, err := e.IsMember(ctx, w)
		if err != nil {
			t.Fatal(err)
		}
		exact, err := e.Exact(ctx, w)
		if err != nil {
			t.Fatal(err)
		}
		found := slices.Contains(Words(exact), alphabet.Denormalize(alphabet.Normalize(w)))
		if member != found {
			t.Errorf("%q: IsMember = %v but Exact = %v", w, member, Words(exact))
		}
		if !member {
			t.Errorf("IsMember(%q) = false", w)
		}
	}
}

func TestFallbackWhileLoading(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(fixture)
	e := NewEngine(Static(nil), store, DefaultOptions())

	if e.Ready() {
		t.Fatal("engine without lexicon reports ready")
	}
	got, err := e.Exact(ctx, "casa")
	if err != nil {
		t.Fatal(err)
	}
	if w := Words(got); !slices.Equal(w, []string{"ASCA", "CASA", "SACA"}) {
		t.Errorf("fallback Exact = %v", w)
	}
	plus, err := e.PlusOne(ctx, "casa")
	if err != nil || len(plus) != 4 {
		t.Errorf("fallback PlusOne = %v, %v", Words(plus), err)
	}
	if ok, err := e.IsMember(ctx, "llama"); err != nil || !ok {
		t.Errorf("fallback IsMember = %v, %v", ok, err)
	}
	if _, err := e.Pattern(ctx, "C*A"); !errors.Is(err, lexicon.ErrUnavailable) {
		t.Errorf("Pattern without lexicon err = %v", err)
	}

	store.err = errors.New("disk gone")
	if _, err := e.Exact(ctx, "casa"); !errors.Is(err, store.err) {
		t.Errorf("store error not returned: %v", err)
	}
}

func TestUnavailableWithoutFallback(t *testing.T) {
	e := NewEngine(Static(nil), nil, DefaultOptions())
	ctx := context.Background()
	if _, err := e.Exact(ctx, "casa"); !errors.Is(err, lexicon.ErrUnavailable) {
		t.Errorf("Exact err = %v", err)
	}
	if _, err := e.IsMember(ctx, "casa"); !errors.Is(err, lexicon.ErrUnavailable) {
		t.Errorf("IsMember err = %v", err)
	}
	if got, err := e.Exact(ctx, ""); err != nil || got != nil {
		t.Errorf("empty query should not need a lexicon: %v, %v", got, err)
	}
}

func TestPatternScenarios(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	testCases := []struct {
		raw      string
		lengths  []int
		expected []string
	}{
		{"C*A:5", []int{5}, []string{"CARTA", "CASTA", "CAUSA", "CERCA"}},
		{"+RR-Z:6", []int{6}, []string{"BARRERA", "CARRETA"}},
		{"CARTA:5", []int{5}, []string{"CARTA"}},
		{"?A", []int{2}, []string{"LA"}},
		{"A*", []int{2, 3, 4}, []string{"AL", "AS", "ALA", "AMA", "ANA", "ASA", "ASCA"}},
		{"CH*", []int{4, 5}, []string{"CHORRO", "CHARCA"}},
		{"+a-a", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			groups, err := e.Pattern(ctx, tc.raw)
			if err != nil {
				t.Fatalf("Pattern(%q): %v", tc.raw, err)
			}
			var lengths []int
			for _, g := range groups {
				lengths = append(lengths, g.Length)
				for _, entry := range g.Entries {
					if entry.Length != g.Length {
						t.Errorf("%s in group %d", entry.Word, g.Length)
					}
				}
			}
			if !slices.Equal(lengths, tc.lengths) {
				t.Errorf("group lengths = %v, want %v", lengths, tc.lengths)
			}
			if w := Words(groups.Entries()); !slices.Equal(w, tc.expected) {
				t.Errorf("Pattern(%q) = %v, want %v", tc.raw, w, tc.expected)
			}
		})
	}
}

func TestPatternFilled(t *testing.T) {
	e := newTestEngine(t)
	groups, err := e.Pattern(context.Background(), "C?S*")
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range groups.Entries() {
		if entry.Word == "CASAS" && !slices.Equal(entry.Filled, []int{1, 3, 4}) {
			t.Errorf("CASAS filled = %v, want [1 3 4]", entry.Filled)
		}
	}
}

func TestPatternMalformed(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Pattern(context.Background(), "C*A:"); !errors.Is(err, pattern.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestPatternRack(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	testCases := []struct {
		raw      string
		expected []string
	}{
		{"C*A,ARST", []string{"CASA", "CARTA", "CASTA"}},
		{"C*A,AS", []string{"CASA"}},
		{"C*A,AS?", []string{"CASA", "COSA", "CASTA", "CAUSA"}},
		{"*,AAL", []string{"AL", "LA", "ALA"}},
		{"*,LLAMA", []string{"AMA", "LLAMA"}},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			groups, err := e.Pattern(ctx, tc.raw)
			if err != nil {
				t.Fatal(err)
			}
			if w := Words(groups.Entries()); !slices.Equal(w, tc.expected) {
				t.Errorf("Pattern(%q) = %v, want %v", tc.raw, w, tc.expected)
			}
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	lex := lexicon.FromWords(fixture)
	ctx := context.Background()
	patterns := []string{
		"C*A,ASTU?", "*,CASA", "*,CASAS?", "?A?A,CS", "*,??", "+A*,LLAM",
		"C*-T,ARSTU??", "*:5,ACRT?", "+RR,AABEER?", "CH*,ORRO", "A*,", "C*A:5",
	}
	for _, raw := range patterns {
		p := pattern.MustCompile(raw)
		scanned, err := Scan(ctx, lex, p)
		if err != nil {
			t.Fatal(err)
		}
		descended, err := Descend(ctx, lex, p)
		if err != nil {
			t.Fatal(err)
		}
		a, b := groupByLength(scanned), groupByLength(descended)
		if !slices.Equal(Words(a.Entries()), Words(b.Entries())) {
			t.Errorf("%q: scan %v, descent %v", raw, Words(a.Entries()), Words(b.Entries()))
		}
	}
}

func TestPatternCache(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	first, _ := e.Pattern(ctx, "C*A:5")
	second, _ := e.Pattern(ctx, "c * a : 5")
	if !slices.Equal(Words(first.Entries()), Words(second.Entries())) {
		t.Error("cached result differs")
	}
	stats := e.CacheStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("CacheStats = %+v", stats)
	}

	off := NewEngine(Static(lexicon.FromWords(fixture)), nil, Options{})
	if _, err := off.Pattern(ctx, "C*A"); err != nil {
		t.Fatal(err)
	}
	if off.CacheStats() != (CacheStats{}) {
		t.Errorf("disabled cache stats = %+v", off.CacheStats())
	}
}

func TestJudge(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	v, err := e.Judge(ctx, "casa, saca")
	if err != nil {
		t.Fatal(err)
	}
	if !v.AllValid || len(v.Words) != 2 {
		t.Errorf("Judge(casa saca) = %+v", v)
	}

	v, err = e.Judge(ctx, "casa cas")
	if err != nil {
		t.Fatal(err)
	}
	if v.AllValid {
		t.Error("cas should make the play invalid")
	}
	if !v.Words[0].Valid || v.Words[1].Valid {
		t.Errorf("Words = %+v", v.Words)
	}
	if want := []string{"AS", "CASA", "CASO"}; !slices.Equal(v.Words[1].Suggestions, want) {
		t.Errorf("suggestions = %v, want %v", v.Words[1].Suggestions, want)
	}

	v, err = e.Judge(ctx, " 12 ")
	if err != nil || v.AllValid || len(v.Words) != 0 {
		t.Errorf("Judge(empty) = %+v, %v", v, err)
	}
}

func BenchmarkSubsets(b *testing.B) {
	e := newTestEngine(b)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Subsets(ctx, "carretas")
	}
}

func BenchmarkPatternScan(b *testing.B) {
	lex := lexicon.FromWords(fixture)
	p := pattern.MustCompile("C*A")
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Scan(ctx, lex, p)
	}
}
