package lexicon

import (
	"errors"
	"iter"
	"slices"

	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrUnavailable is returned when no lexicon has been loaded yet and no fallback can answer.
var ErrUnavailable = errors.New("lexicon unavailable")

// Stats describes a built lexicon.
type Stats struct {
	Words      int
	Alphagrams int
	Nodes      int
	MaxLength  int
}

// Lexicon is an immutable alphagram trie plus length and prefix indexes.
type Lexicon struct {
	root     *node
	byLength map[int][]string
	prefix   *patricia.Trie
	stats    Stats
}

// Stats returns size information about the lexicon.
func (lx *Lexicon) Stats() Stats {
	return lx.stats
}

// Len returns the number of words.
func (lx *Lexicon) Len() int {
	return lx.stats.Words
}

func (lx *Lexicon) walk(key []alphabet.Letter) *node {
	n := lx.root
	for _, l := range key {
		if !l.Valid() {
			return nil
		}
		n = n.children[l]
		if n == nil {
			return nil
		}
	}
	return n
}

// LookupAlphagram returns the words filed exactly under the alphagram key.
// The key must already be in collation order; no partial matching is done.
func (lx *Lexicon) LookupAlphagram(key string) []string {
	return lx.LookupLetters(alphabet.Letters(key))
}

// LookupLetters is LookupAlphagram over letters already in collation order.
func (lx *Lexicon) LookupLetters(key []alphabet.Letter) []string {
	n := lx.walk(key)
	if n == nil {
		return nil
	}
	return slices.Clone(n.words)
}

// LookupCounts returns the words whose letters are exactly the multiset c.
func (lx *Lexicon) LookupCounts(c alphabet.Counts) []string {
	return lx.LookupLetters(c.Alphagram())
}

// Contains reports whether word is in the lexicon.
func (lx *Lexicon) Contains(word string) bool {
	canonical := alphabet.Normalize(word)
	if canonical == "" {
		return false
	}
	key := alphabet.Letters(canonical)
	alphabet.SortLetters(key)
	n := lx.walk(key)
	return n != nil && slices.Contains(n.words, canonical)
}

// Words yields every word in pre-order. The order is not otherwise specified.
func (lx *Lexicon) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		stack := []*node{lx.root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range n.words {
				if !yield(w) {
					return
				}
			}
			for i := len(n.children) - 1; i >= 0; i-- {
				if c := n.children[i]; c != nil {
					stack = append(stack, c)
				}
			}
		}
	}
}

// AllWords collects Words into a slice.
func (lx *Lexicon) AllWords() []string {
	out := make([]string, 0, lx.stats.Words)
	for w := range lx.Words() {
		out = append(out, w)
	}
	return out
}

// Alphagrams yields every non-empty alphagram with its words.
func (lx *Lexicon) Alphagrams() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		var visit func(n *node, path []alphabet.Letter) bool
		visit = func(n *node, path []alphabet.Letter) bool {
			if len(n.words) > 0 && !yield(alphabet.String(path), slices.Clone(n.words)) {
				return false
			}
			for i, c := range n.children {
				if c == nil {
					continue
				}
				if !visit(c, append(path, alphabet.Letter(i))) {
					return false
				}
			}
			return true
		}
		visit(lx.root, make([]alphabet.Letter, 0, lx.stats.MaxLength))
	}
}

// ByLength returns the words with n tiles in display order. The slice is shared and
// must not be modified.
func (lx *Lexicon) ByLength(n int) []string {
	return lx.byLength[n]
}

// VisitPrefix calls fn for every word whose canonical form starts with prefix.
// An empty prefix visits every word.
func (lx *Lexicon) VisitPrefix(prefix string, fn func(canonical string) error) error {
	// Items hold the canonical word, so visiting does not copy the key.
	visit := func(_ patricia.Prefix, item patricia.Item) error {
		return fn(item.(string))
	}
	if prefix == "" {
		return lx.prefix.Visit(visit)
	}
	return lx.prefix.VisitSubtree(patricia.Prefix(prefix), visit)
}

// Root returns a read-only cursor at the trie root.
func (lx *Lexicon) Root() Node {
	return Node{n: lx.root}
}

// Node is a read-only cursor into the trie.
type Node struct {
	n *node
}

// Child follows the edge labeled l.
func (c Node) Child(l alphabet.Letter) (Node, bool) {
	if c.n == nil || !l.Valid() || c.n.children[l] == nil {
		return Node{}, false
	}
	return Node{n: c.n.children[l]}, true
}

// Words returns the words stored at this node. The slice is shared and must not be modified.
func (c Node) Words() []string {
	if c.n == nil {
		return nil
	}
	return c.n.words
}

// Edges yields each outgoing letter with its child, in Letter order.
func (c Node) Edges() iter.Seq2[alphabet.Letter, Node] {
	return func(yield func(alphabet.Letter, Node) bool) {
		if c.n == nil {
			return
		}
		for i, child := range c.n.children {
			if child == nil {
				continue
			}
			if !yield(alphabet.Letter(i), Node{n: child}) {
				return
			}
		}
	}
}
