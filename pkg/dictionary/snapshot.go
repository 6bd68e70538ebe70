package dictionary

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/tileserve/pkg/alphabet"
	"github.com/bastiangx/tileserve/pkg/lexicon"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the serialized form of a built lexicon: every alphagram with its words.
type Snapshot struct {
	Version  int             `msgpack:"v"`
	Alphabet string          `msgpack:"a"`
	Entries  []SnapshotEntry `msgpack:"e"`
}

// SnapshotEntry is one trie terminal.
type SnapshotEntry struct {
	Alphagram string   `msgpack:"k"`
	Words     []string `msgpack:"w"`
}

// alphabetSignature identifies the letter table a snapshot was built with.
func alphabetSignature() string {
	return alphabet.String(alphabet.All())
}

// WriteSnapshot encodes lex as a MessagePack snapshot.
func WriteSnapshot(w io.Writer, lex *lexicon.Lexicon) error {
	snap := Snapshot{
		Version:  SnapshotVersion,
		Alphabet: alphabetSignature(),
		Entries:  make([]SnapshotEntry, 0, lex.Stats().Alphagrams),
	}
	for key, words := range lex.Alphagrams() {
		snap.Entries = append(snap.Entries, SnapshotEntry{Alphagram: key, Words: words})
	}

	bw := bufio.NewWriter(w)
	if err := msgpack.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return bw.Flush()
}

// ReadSnapshot decodes a snapshot and rebuilds the lexicon. Every word is checked
// against the alphagram it is filed under.
func ReadSnapshot(r io.Reader) (*lexicon.Lexicon, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrMalformed, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, want %d", ErrMalformed, snap.Version, SnapshotVersion)
	}
	if snap.Alphabet != alphabetSignature() {
		return nil, fmt.Errorf("%w: snapshot built for alphabet %q", ErrMalformed, snap.Alphabet)
	}

	b := lexicon.New()
	for _, entry := range snap.Entries {
		for _, w := range entry.Words {
			if alphabet.Normalize(w) != w || alphabet.Alphagram(w) != entry.Alphagram {
				return nil, fmt.Errorf("%w: %q filed under %q", ErrMalformed, w, entry.Alphagram)
			}
			b.Insert(w)
		}
	}
	return b.Build(), nil
}
