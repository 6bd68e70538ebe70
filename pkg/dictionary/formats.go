package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // One word per line
	FormatChunk               // Length prefixed binary words
	FormatSnapshot            // MessagePack alphagram snapshot
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Word List",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatSnapshot: {
		Format:      FormatSnapshot,
		Description: "Lexicon Snapshot",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     3,
	},
}

// DefaultMaxChunkWords is the largest word count a chunk header may declare.
const DefaultMaxChunkWords = 1000000

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("%w: file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			ErrMalformed, filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formatInfo.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateChunkFormat(filename, DefaultMaxChunkWords)
	}
	return nil
}

// validateChunkFormat checks the word count header of a chunk file
func validateChunkFormat(filename string, maxWords int) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("%w: failed to read header from %s: %v", ErrMalformed, filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("%w: invalid word count in %s: %d (negative)", ErrMalformed, filename, wordCount)
	}
	if maxWords > 0 && int(wordCount) > maxWords {
		return fmt.Errorf("%w: suspicious word count in %s: %d (limit %d)", ErrMalformed, filename, wordCount, maxWords)
	}

	log.Debugf("Chunk file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat works out the format of a file from its extension
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []FileFormat{FormatText, FormatChunk, FormatSnapshot} {
		if !slices.Contains(supportedFormats[format].Extensions, ext) {
			continue
		}
		if err := ValidateFileFormat(filename, format); err != nil {
			return FormatUnknown, err
		}
		return format, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// ListSupportedFormats returns all supported formats in declaration order
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, f := range []FileFormat{FormatText, FormatChunk, FormatSnapshot} {
		formats = append(formats, supportedFormats[f])
	}
	return formats
}
