package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/bastiangx/tileserve/pkg/search"
	"github.com/charmbracelet/log"
)

func newTestHandler(out *bytes.Buffer) *InputHandler {
	lex := lexicon.FromWords([]string{"casa", "saca", "asca", "casas", "casta", "ala", "asa", "as", "llama"})
	h := NewInputHandler(search.NewEngine(search.Static(lex), nil, search.DefaultOptions()), 2, 32)
	h.log = log.New(out)
	return h
}

func TestStartModes(t *testing.T) {
	testCases := []struct {
		input    string
		contains []string
	}{
		{"casa", []string{"Anagrams (3)", "ASCA", "Plus one (2)", "CASAS", "+S"}},
		{"a?a", []string{"With blanks (2)", "ALA", "[L]"}},
		{">casas", []string{"Sub-racks (5)", "ASCA", "... 3 more"}},
		{"/CAS*", []string{"Found 3 matches", "4 letters (1)"}},
		{"=casa llama", []string{"CASA valid", "LLAMA valid", "Play is valid"}},
		{"=casa cas", []string{"CAS not valid", "did you mean", "Play is not valid"}},
		{"!llama", []string{"is in the lexicon"}},
		{"/C*A:0", []string{"malformed pattern"}},
		{"zzz", []string{"Anagrams: none"}},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			var out bytes.Buffer
			h := newTestHandler(&out)
			if err := h.Start(context.Background(), strings.NewReader(tc.input+"\n\n")); err != nil {
				t.Fatalf("Start: %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestQueryTooLong(t *testing.T) {
	var out bytes.Buffer
	h := newTestHandler(&out)
	h.handleInput(context.Background(), strings.Repeat("a", 40))
	if !strings.Contains(out.String(), "Query too long") {
		t.Errorf("expected rejection, got:\n%s", out.String())
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	h := newTestHandler(&out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Start(ctx, strings.NewReader("casa\n")); err != context.Canceled {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
}
