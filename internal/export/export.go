// Package export writes editor content out as .txt or .docx.
package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is an export target.
type Format string

const (
	FormatTxt  Format = "txt"
	FormatDocx Format = "docx"
)

// ParseFormat accepts "txt" or "docx", with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatTxt, FormatDocx:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want txt or docx)", s)
	}
}

// FileName builds "<title>.<format>", replacing characters that are not
// allowed in file names.
func FileName(title string, f Format) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "document"
	}
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
	return filepath.Base(title) + "." + string(f)
}

// Write encodes content in format f.
func Write(w io.Writer, f Format, content string) error {
	switch f {
	case FormatTxt:
		return WriteText(w, content)
	case FormatDocx:
		return WriteDocx(w, content)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteText writes content with CRLF line endings.
func WriteText(w io.Writer, content string) error {
	_, err := io.WriteString(w, strings.Join(lines(content), "\r\n"))
	return err
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// WriteDocx writes a minimal Word document with one paragraph per line.
// Leading indentation is kept as literal spaces.
func WriteDocx(w io.Writer, content string) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML(content)},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return err
		}
	}
	return zw.Close()
}

func documentXML(content string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines(content) {
		b.WriteString("<w:p>")
		if line != "" {
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			_ = xml.EscapeText(&b, []byte(line))
			b.WriteString("</w:t></w:r>")
		}
		b.WriteString("</w:p>")
	}
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func lines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}
