// Package cli is an interactive query shell for trying searches by hand.
//
// A line is read as a query whose first character picks the search:
//
//	casa        anagrams, then anagrams plus one tile
//	a?a         a line with '?' is a blank search
//	>casas      words buildable from the rack
//	/C*A:5      pattern search
//	=casa cas   judge a play
//	!chorro     membership
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/tileserve/internal/logger"
	"github.com/bastiangx/tileserve/pkg/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	extraStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// InputHandler reads queries and prints the results.
type InputHandler struct {
	engine         *search.Engine
	limit          int
	maxQueryLength int
	log            *log.Logger
}

// NewInputHandler creates a handler printing at most limit entries per search.
func NewInputHandler(engine *search.Engine, limit, maxQueryLength int) *InputHandler {
	return &InputHandler{
		engine:         engine,
		limit:          limit,
		maxQueryLength: maxQueryLength,
		log:            logger.Default(""),
	}
}

// Start runs the loop until r is exhausted or ctx is done.
func (h *InputHandler) Start(ctx context.Context, r io.Reader) error {
	h.log.Print("TileServe CLI")
	h.log.Print("plain: anagrams | a?a: blanks | >rack: sub-racks | /pattern | =play: judge | !word: member")

	scanner := bufio.NewScanner(r)
	for ctx.Err() == nil {
		h.log.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(ctx, line)
	}
	return ctx.Err()
}

// handleInput dispatches one line on its leading mode character.
func (h *InputHandler) handleInput(ctx context.Context, line string) {
	if utf8.RuneCountInString(line) > h.maxQueryLength {
		h.log.Errorf("Query too long: %s", line)
		return
	}

	start := time.Now()
	var err error
	switch line[0] {
	case '>':
		err = h.subsets(ctx, line[1:])
	case '/':
		err = h.pattern(ctx, line[1:])
	case '=':
		err = h.judge(ctx, line[1:])
	case '!':
		err = h.member(ctx, line[1:])
	default:
		if strings.ContainsRune(line, '?') {
			err = h.blanks(ctx, line)
		} else {
			err = h.anagrams(ctx, line)
		}
	}
	if err != nil {
		h.log.Errorf("%v", err)
		return
	}
	h.log.Debugf("Took [ %v ] for '%s'", time.Since(start), line)
}

func (h *InputHandler) anagrams(ctx context.Context, q string) error {
	exact, err := h.engine.Exact(ctx, q)
	if err != nil {
		return err
	}
	h.printEntries("Anagrams", exact)

	plus, err := h.engine.PlusOne(ctx, q)
	if err != nil {
		return err
	}
	h.printEntries("Plus one", plus)
	return nil
}

func (h *InputHandler) blanks(ctx context.Context, q string) error {
	entries, err := h.engine.BlankQuery(ctx, q)
	if err != nil {
		return err
	}
	h.printEntries("With blanks", entries)
	return nil
}

func (h *InputHandler) subsets(ctx context.Context, q string) error {
	entries, err := h.engine.Subsets(ctx, q)
	if err != nil {
		return err
	}
	h.printEntries("Sub-racks", entries)
	return nil
}

func (h *InputHandler) pattern(ctx context.Context, q string) error {
	groups, err := h.engine.Pattern(ctx, q)
	if err != nil {
		return err
	}
	if groups.Len() == 0 {
		h.log.Warnf("No matches for pattern '%s'", q)
		return nil
	}
	h.log.Printf("Found %d matches for pattern '%s':", groups.Len(), q)
	left := h.limit
	for _, g := range groups {
		if left <= 0 {
			break
		}
		h.log.Printf("  %d letters (%d)", g.Length, len(g.Entries))
		entries := g.Entries[:min(len(g.Entries), left)]
		left -= len(entries)
		for i, e := range entries {
			h.log.Printf("  %3d. %s", i+1, h.formatEntry(e))
		}
	}
	return nil
}

func (h *InputHandler) judge(ctx context.Context, q string) error {
	verdict, err := h.engine.Judge(ctx, q)
	if err != nil {
		return err
	}
	for _, j := range verdict.Words {
		if j.Valid {
			h.log.Printf("  %s valid", wordStyle.Render(j.Word))
			continue
		}
		line := fmt.Sprintf("  %s not valid", badStyle.Render(j.Word))
		if len(j.Suggestions) > 0 {
			line += " (did you mean " + strings.Join(j.Suggestions, ", ") + "?)"
		}
		h.log.Print(line)
	}
	if verdict.AllValid {
		h.log.Print("Play is valid")
	} else {
		h.log.Print("Play is not valid")
	}
	return nil
}

func (h *InputHandler) member(ctx context.Context, q string) error {
	ok, err := h.engine.IsMember(ctx, q)
	if err != nil {
		return err
	}
	if ok {
		h.log.Printf("%s is in the lexicon", wordStyle.Render(strings.ToUpper(q)))
	} else {
		h.log.Printf("%s is not in the lexicon", badStyle.Render(strings.ToUpper(q)))
	}
	return nil
}

func (h *InputHandler) printEntries(title string, entries []search.Entry) {
	if len(entries) == 0 {
		h.log.Warnf("%s: none", title)
		return
	}
	h.log.Printf("%s (%d):", title, len(entries))
	for i, e := range entries {
		if i == h.limit {
			h.log.Printf("  ... %d more", len(entries)-h.limit)
			break
		}
		h.log.Printf("  %3d. %s", i+1, h.formatEntry(e))
	}
}

func (h *InputHandler) formatEntry(e search.Entry) string {
	s := wordStyle.Render(e.Word)
	switch {
	case e.Extra != "":
		s += " " + extraStyle.Render("+"+e.Extra)
	case len(e.Blanks) > 0:
		s += " " + extraStyle.Render("["+strings.Join(e.Blanks, " ")+"]")
	case len(e.Filled) > 0:
		s += " " + extraStyle.Render(fmt.Sprint(e.Filled))
	}
	return s
}
