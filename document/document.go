// Package document reads HTML input and parses it into a DOM tree.
package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
)

// Document wraps the parsed HTML node tree.
type Document struct {
	root *html.Node
}

// ReadFile reads the whole file as UTF-8 text. A leading byte order mark is
// dropped; any invalid UTF-8 sequence is an error.
func ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open HTML file %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML file %s: %w", path, err)
	}
	return decodeUTF8(path, data)
}

func decodeUTF8(path string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		idx := invalidOffset(data)
		return "", fmt.Errorf("failed to read HTML file %s: invalid UTF-8 at byte %d", path, idx)
	}
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML file %s: %w", path, err)
	}
	return string(text), nil
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// Parse builds a document tree from HTML text. Malformed markup still
// yields a tree; only a failing reader produces an error.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(text string) (*Document, error) {
	return Parse(strings.NewReader(text))
}

