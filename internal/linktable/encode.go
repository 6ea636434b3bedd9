package linktable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf16"
	"unicode/utf8"
)

// WriteOptions controls how the table is serialized.
type WriteOptions struct {
	EscapeNonASCII bool   // Write non-ASCII characters as \uXXXX escapes; U+2028 and U+2029 are escaped either way
	Indent         string // Per-level indentation
}

// DefaultWriteOptions returns options producing pure-ASCII JSON indented by two spaces.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		EscapeNonASCII: true,
		Indent:         "  ",
	}
}

// WriteError represents a failure to serialize or persist the table.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write link table %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Marshal encodes the table as an indented JSON object with sorted keys.
// HTML characters are never escaped. The output has no trailing newline.
func (t *Table) Marshal(opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", opts.Indent)
	if err := enc.Encode(t.links); err != nil {
		return nil, err
	}

	data := bytes.TrimRight(buf.Bytes(), "\n")
	if opts.EscapeNonASCII {
		data = escapeNonASCII(data)
	}
	return data, nil
}

// escapeNonASCII rewrites every non-ASCII rune as a JSON \u escape, using a
// surrogate pair above U+FFFF. Input must be encoder output, where non-ASCII
// runes only occur inside string literals.
func escapeNonASCII(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		switch {
		case r < utf8.RuneSelf:
			buf.WriteByte(data[0])
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
		data = data[size:]
	}
	return buf.Bytes()
}

// Write serializes the table and writes it to path, replacing any existing file.
func (t *Table) Write(path string, opts WriteOptions) error {
	data, err := t.Marshal(opts)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Read loads a serialized table from path.
func Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal decodes a serialized table. Escaped and literal non-ASCII
// spellings decode to the same strings.
func Unmarshal(data []byte) (map[string]string, error) {
	links := make(map[string]string)
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("invalid link table: %w", err)
	}
	if links == nil {
		return nil, errors.New("invalid link table: null document")
	}
	return links, nil
}
