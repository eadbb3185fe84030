// Package ingest loads passages from files and streams: plain text, Markdown,
// HTML and PDF. Plain text keeps its spacing; HTML and PDF are reduced to prose.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"humanizer/internal/logging"
)

// Format is the detected source format.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// MaxSourceBytes caps how much of one source is read.
const MaxSourceBytes = 16 << 20

// ErrTooLarge is returned for sources over MaxSourceBytes.
var ErrTooLarge = errors.New("source exceeds size limit")

// Document is one loaded passage.
type Document struct {
	// Path is the source path, or "-" for stdin.
	Path   string
	Title  string
	Format Format
	Text   string
}

// FormatForPath picks a format from the file extension. Unknown extensions are text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	default:
		return FormatText
	}
}

// Sniff guesses a format from leading bytes.
func Sniff(data []byte) Format {
	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(lower, []byte("<!doctype html")), bytes.HasPrefix(lower, []byte("<html")):
		return FormatHTML
	default:
		return FormatText
	}
}

// Load reads one file and repairs its encoding. The path "-" reads stdin.
func Load(path string) (*Document, error) {
	if path == "-" {
		return Read(os.Stdin, "-")
	}

	format := FormatForPath(path)
	var text string
	var err error
	switch format {
	case FormatPDF:
		text, err = parsePDF(path)
	default:
		var data []byte
		data, err = readFile(path)
		if err == nil {
			text, err = decode(data, format)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	doc := &Document{
		Path:   path,
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format: format,
		Text:   Normalize(text),
	}
	logging.Ingest("loaded %s (%s, %d bytes)", path, format, len(doc.Text))
	return doc, nil
}

// Read loads a passage from r. HTML is detected by its leading bytes; PDF streams
// are rejected since the PDF reader needs random access.
func Read(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxSourceBytes {
		return nil, fmt.Errorf("read %s: %w", name, ErrTooLarge)
	}

	format := Sniff(data)
	if format == FormatPDF {
		return nil, fmt.Errorf("read %s: PDF input must be a file path", name)
	}
	text, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Document{Path: name, Title: name, Format: format, Text: Normalize(text)}, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxSourceBytes {
		return nil, ErrTooLarge
	}
	return os.ReadFile(path)
}

func decode(data []byte, format Format) (string, error) {
	if format == FormatHTML {
		return extractHTML(bytes.NewReader(data))
	}
	return string(data), nil
}
