package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// ErrMalformed is returned for dictionary files that cannot be decoded.
var ErrMalformed = errors.New("malformed dictionary")

// ReadText reads a word list with one word per line. Blank lines and lines starting
// with '#' are skipped; only the first field of a line is kept.
func ReadText(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

// ReadChunk reads a binary chunk: an int32 LE word count, then per word a uint16 LE byte
// length and the UTF-8 bytes. maxWords bounds the declared count; zero means no bound.
func ReadChunk(r io.Reader, maxWords int) ([]string, error) {
	reader := bufio.NewReader(r)

	var total int32
	if err := binary.Read(reader, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("%w: chunk header: %v", ErrMalformed, err)
	}
	if total < 0 || (maxWords > 0 && int(total) > maxWords) {
		return nil, fmt.Errorf("%w: chunk declares %d words", ErrMalformed, total)
	}

	words := make([]string, 0, total)
	for i := 0; i < int(total); i++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return nil, fmt.Errorf("%w: word %d of %d length: %v", ErrMalformed, i, total, err)
		}
		buf := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("%w: word %d of %d: %v", ErrMalformed, i, total, err)
		}
		words = append(words, string(buf))
	}
	return words, nil
}

// WriteChunk writes words in the format ReadChunk reads.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > math.MaxInt32 {
		return fmt.Errorf("chunk of %d words is too large", len(words))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for _, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("word of %d bytes is too long", len(word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
