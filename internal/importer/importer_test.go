package importer

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"report.PDF", FormatPDF},
		{"brief.docx", FormatWord},
		{"notes.txt", FormatText},
		{"README", FormatText},
		{"data.csv", FormatText},
	}
	for _, tt := range cases {
		got, err := Detect(tt.name)
		if err != nil {
			t.Fatalf("Detect(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	if _, err := Detect("legacy.doc"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Detect(.doc) err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeTextCharsets(t *testing.T) {
	want := "1. 预算\r\n2. 风险"
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(want))
	if err != nil {
		t.Fatal(err)
	}
	big5, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte("預算"))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"utf8", []byte("plain\ntext"), "", "plain\ntext"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "bom"...), "utf-8", "bom"},
		{"gbk", gbk, "gbk", "1. 预算\n2. 风险"},
		{"gb18030", gbk, "GB18030", "1. 预算\n2. 风险"},
		{"big5", big5, "big5", "預算"},
		{"utf16 bom overrides", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "gbk", "hi"},
		{"latin1", []byte{'c', 'a', 'f', 0xE9}, "latin1", "café"},
		{"cr only", []byte("a\rb"), "", "a\nb"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(FormatText, tt.data, Options{Encoding: tt.encoding})
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := Decode(FormatText, []byte("x"), Options{Encoding: "klingon"})
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("err = %v, want ErrUnknownEncoding", err)
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode(Format("odt"), nil, Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Budget </w:t></w:r><w:r><w:t>review</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>
</w:body>
</w:document>`)

	got, err := Decode(FormatWord, data, Options{})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if want := "Title\nBudget review\n\na\tb\nc"; got != want {
		t.Fatalf("Decode = %q, want %q", got, want)
	}
}

func TestDecodeDocxErrors(t *testing.T) {
	if _, err := Decode(FormatWord, []byte("not a zip"), Options{}); err == nil {
		t.Fatalf("expected error for non-zip data")
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, _ = w.Create("other.xml")
	_ = w.Close()
	if _, err := Decode(FormatWord, buf.Bytes(), Options{}); err == nil || !strings.Contains(err.Error(), "word/document.xml") {
		t.Fatalf("err = %v, want missing document.xml", err)
	}

	var deep strings.Builder
	deep.WriteString(`<w:document xmlns:w="x"><w:body>`)
	for i := 0; i < 300; i++ {
		deep.WriteString("<w:p>")
	}
	for i := 0; i < 300; i++ {
		deep.WriteString("</w:p>")
	}
	deep.WriteString(`</w:body></w:document>`)
	if _, err := Decode(FormatWord, buildDocx(t, deep.String()), Options{}); err == nil || !strings.Contains(err.Error(), "nesting depth") {
		t.Fatalf("err = %v, want nesting depth error", err)
	}
}

func TestTextFromStream(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
72 712 Td
(1. Budget) Tj
0 -14 Td
[(Ri) -20 (sk \(high\))] TJ
T*
(caf\351 \134 done) Tj
ET
BT
(next block) '
ET`)
	got := textFromStream(stream)
	want := "1. Budget\nRisk (high)\ncaf\xe9 \\ done\nnext block"
	if got != want {
		t.Fatalf("textFromStream = %q, want %q", got, want)
	}
}

func TestDecodePDFRejectsGarbage(t *testing.T) {
	if _, err := Decode(FormatPDF, []byte("%PDF-1.4 broken"), Options{}); err == nil {
		t.Fatalf("expected error for malformed PDF")
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("line one\r\nline two"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ImportFile(path, Options{})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if f.Name != "notes.txt" || f.Format != FormatText || f.Content != "line one\nline two" {
		t.Fatalf("ImportFile = %+v", f)
	}

	if _, err := ImportFile(path, Options{MaxSize: 4}); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("err = %v, want too large", err)
	}
	if _, err := ImportFile(filepath.Join(dir, "missing.txt"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}
