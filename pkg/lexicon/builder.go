// Package lexicon holds the alphagram-keyed trie every search runs against.
//
// A Builder accumulates words; Build freezes them into a Lexicon that is never mutated
// again and can be shared between goroutines without locking.
package lexicon

import (
	"slices"

	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type node struct {
	children [alphabet.Size]*node
	words    []string
}

// Builder constructs a Lexicon. It is not safe for concurrent use.
type Builder struct {
	root       *node
	nodes      int
	words      int
	alphagrams int
	built      bool
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{root: &node{}, nodes: 1}
}

// Insert canonicalizes word and files it under its alphagram.
// It returns false if the word was empty after normalization or already present.
func (b *Builder) Insert(word string) bool {
	if b.built {
		log.Warnf("Insert after Build ignored: %s", word)
		return false
	}
	canonical := alphabet.Normalize(word)
	if canonical == "" {
		return false
	}

	key := alphabet.Letters(canonical)
	alphabet.SortLetters(key)

	n := b.root
	for _, l := range key {
		if n.children[l] == nil {
			n.children[l] = &node{}
			b.nodes++
		}
		n = n.children[l]
	}
	if slices.Contains(n.words, canonical) {
		return false
	}
	if len(n.words) == 0 {
		b.alphagrams++
	}
	n.words = append(n.words, canonical)
	b.words++
	return true
}

// InsertAll inserts every word and returns how many were new.
func (b *Builder) InsertAll(words []string) int {
	added := 0
	for _, w := range words {
		if b.Insert(w) {
			added++
		}
	}
	return added
}

// Len returns the number of distinct words inserted so far.
func (b *Builder) Len() int {
	return b.words
}

// Build freezes the builder into a read-only Lexicon and derives the secondary indexes.
// The builder must not be used afterwards.
func (b *Builder) Build() *Lexicon {
	b.built = true
	lex := &Lexicon{
		root:     b.root,
		byLength: make(map[int][]string),
		prefix:   patricia.NewTrie(),
		stats: Stats{
			Words:      b.words,
			Alphagrams: b.alphagrams,
			Nodes:      b.nodes,
		},
	}

	for w := range lex.Words() {
		n := alphabet.Len(w)
		lex.byLength[n] = append(lex.byLength[n], w)
		lex.prefix.Insert(patricia.Prefix(w), w)
		if n > lex.stats.MaxLength {
			lex.stats.MaxLength = n
		}
	}
	for _, bucket := range lex.byLength {
		alphabet.Sort(bucket)
	}

	log.Debugf("Lexicon built: %d words, %d alphagrams, %d nodes", b.words, b.alphagrams, b.nodes)
	return lex
}

// FromWords builds a lexicon from a word list.
func FromWords(words []string) *Lexicon {
	b := New()
	b.InsertAll(words)
	return b.Build()
}
