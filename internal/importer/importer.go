// Package importer turns imported files into plain text.
//
// Supported formats:
//   - .pdf   PDF text operators, read with pdfcpu
//   - .docx  Word (archive/zip → word/document.xml)
//   - other  plain text in a selectable charset (utf-8, gbk, big5, ...)
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how a file is decoded.
type Format string

const (
	FormatText Format = "text"
	FormatWord Format = "word"
	FormatPDF  Format = "pdf"
)

// DefaultMaxSize caps the size of an imported file.
const DefaultMaxSize = 50 << 20

var (
	// ErrUnsupportedFormat is returned for files that are recognised but
	// cannot be decoded, such as legacy binary .doc.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnknownEncoding is returned for charset names that are not known.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Options controls decoding.
type Options struct {
	// Encoding is the charset of plain-text files. Empty means utf-8.
	Encoding string
	// MaxSize is the largest accepted file in bytes. Zero means DefaultMaxSize.
	MaxSize int64
}

// File is the result of importing one file.
type File struct {
	Name    string
	Format  Format
	Content string
}

// Detect returns the format for a file name based on its extension.
// Unknown extensions are read as text.
func Detect(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatWord, nil
	case ".doc":
		return "", fmt.Errorf("%s: legacy Word .doc: %w", name, ErrUnsupportedFormat)
	default:
		return FormatText, nil
	}
}

// Decode extracts the text of data in the given format. Line endings are
// normalised to '\n'.
func Decode(format Format, data []byte, opts Options) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = decodePDF(data)
	case FormatWord:
		text, err = decodeDocx(data)
	case FormatText:
		text, err = decodeText(data, opts.Encoding)
	default:
		return "", fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return "", err
	}
	return normalizeNewlines(text), nil
}

// ImportFile reads and decodes the file at path.
func ImportFile(path string, opts Options) (File, error) {
	format, err := Detect(path)
	if err != nil {
		return File{}, err
	}
	max := opts.MaxSize
	if max <= 0 {
		max = DefaultMaxSize
	}
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.Size() > max {
		return File{}, fmt.Errorf("%s: file too large: %d bytes (max %d)", path, info.Size(), max)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	text, err := Decode(format, data, opts)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return File{Name: filepath.Base(path), Format: format, Content: text}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
