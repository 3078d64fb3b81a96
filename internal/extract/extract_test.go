package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestPlainTextPassthrough(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("  hello terms  \n"), "text/plain", "a.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "hello terms" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestPlainTextRejectsInvalidUTF8(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte{0xff, 0xfe, 0x00}, "text/plain", "a.txt")
	if !errors.Is(err, ErrCorruptInput) {
		t.Fatalf("expected ErrCorruptInput, got %v", err)
	}
}

func TestDocxExtractsParagraphText(t *testing.T) {
	xml := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, xml)

	text, err := TextFromBytes(context.Background(), data,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "contract.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") || !strings.Contains(text, "Second paragraph.") {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected paragraph break: %q", text)
	}
}

func TestDocxSniffedFromOctetStream(t *testing.T) {
	data := buildDocx(t, `<d><p>sniffed</p></d>`)
	text, err := TextFromBytes(context.Background(), data, "application/octet-stream", "contract.bin")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "sniffed") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestLegacyWordMimeTreatedAsDocx(t *testing.T) {
	data := buildDocx(t, `<d><p>legacy upload</p></d>`)
	text, err := TextFromBytes(context.Background(), data, "application/msword", "contract.doc")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "legacy upload") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("unrelated.txt")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = TextFromBytes(context.Background(), buf.Bytes(),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "broken.docx")
	if !errors.Is(err, ErrCorruptInput) {
		t.Fatalf("expected ErrCorruptInput, got %v", err)
	}
}

func TestCorruptPDF(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("definitely not a pdf"), "application/pdf", "broken.pdf")
	if !errors.Is(err, ErrCorruptInput) {
		t.Fatalf("expected ErrCorruptInput, got %v", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("GIF89a"), "image/gif", "pic.gif")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtensionFallbackWhenMimeMissing(t *testing.T) {
	text, err := TextFromBytes(context.Background(), []byte("bare upload"), "", "notes.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "bare upload" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TextFromBytes(ctx, []byte("x"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
