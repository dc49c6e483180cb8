package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is one loaded source file.
type File struct {
	// Name is the path the file was loaded from (or a label for in-memory text).
	Name string

	// Text is the normalized file content.
	Text string

	// Lines holds the raw text of each line. Lines[0] is a placeholder.
	Lines []string
}

// Load reads the file at path and builds its line table.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("source file %s is not valid UTF-8", path)
	}
	return New(path, string(normalize(data))), nil
}

// New builds a File from in-memory text.
func New(name, text string) *File {
	text = string(normalize([]byte(text)))
	return &File{
		Name:  name,
		Text:  text,
		Lines: splitLines(text),
	}
}

// Line returns the raw text of 1-based line n, or "" when n is out of range.
func (f *File) Line(n int) string {
	if f == nil || n < 1 || n >= len(f.Lines) {
		return ""
	}
	return f.Lines[n]
}

// LineCount returns the number of real lines (the placeholder is not counted).
func (f *File) LineCount() int {
	if f == nil || len(f.Lines) == 0 {
		return 0
	}
	return len(f.Lines) - 1
}

func normalize(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.Contains(data, []byte("\r\n")) {
		data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	}
	return data
}

// splitLines mirrors Python's str.splitlines for LF text: a trailing newline
// does not produce an extra empty line.
func splitLines(text string) []string {
	lines := []string{""}
	if text == "" {
		return lines
	}
	lines = append(lines, strings.Split(strings.TrimSuffix(text, "\n"), "\n")...)
	return lines
}
