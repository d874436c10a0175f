package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
)

// stubRunner replaces the external OCR engine in tests.
type stubRunner struct {
	stdout []byte
	err    error
}

func (s stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	return s.stdout, nil, s.err
}

func TestExtract_PlainText(t *testing.T) {
	e := NewExtractor("", "")

	doc := domain.RawDocument{
		Content:     []byte("Visit summary\r\n\r\n\r\nBP 120/80 mmHg\n"),
		ContentType: "text/plain; charset=utf-8",
		Filename:    "note.txt",
	}

	result, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "Visit summary\n\nBP 120/80 mmHg", result.Text)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.Equal(t, "en", result.Language)
}

func TestExtract_PlainTextRejectsInvalidUTF8(t *testing.T) {
	e := NewExtractor("", "")

	doc := domain.RawDocument{
		Content:     []byte{0xC0, 0xAF, 0xFE},
		ContentType: "text/plain",
		Filename:    "garbage.txt",
	}

	_, err := e.Extract(context.Background(), doc)
	assert.Error(t, err)
}

func TestExtract_ImageUsesOCR(t *testing.T) {
	e := NewExtractor("tesseract", "eng", WithRunner(stubRunner{stdout: []byte("Recognized line one\n\nline two\n")}))

	doc := domain.RawDocument{
		Content:     []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
		Filename:    "scan.png",
	}

	result, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "Recognized line one\n\nline two", result.Text)
	assert.InDelta(t, 0.78, result.Confidence, 1e-9)
}

func TestExtract_ImageOCRFailure(t *testing.T) {
	e := NewExtractor("tesseract", "eng", WithRunner(stubRunner{err: errors.New("exit status 1")}))

	doc := domain.RawDocument{
		Content:     []byte{0xFF, 0xD8},
		ContentType: "image/jpeg",
		Filename:    "scan.jpg",
	}

	_, err := e.Extract(context.Background(), doc)
	assert.Error(t, err)
}

func TestExtract_UnknownTypeDegrades(t *testing.T) {
	e := NewExtractor("", "")

	doc := domain.RawDocument{
		Content:     []byte("whatever"),
		ContentType: "application/x-proprietary",
		Filename:    "export.dat",
	}

	result, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "unable to extract text from this document", result.Text)
	assert.InDelta(t, 0.10, result.Confidence, 1e-9)
	assert.Equal(t, "und", result.Language)
}

func TestNormalizeText(t *testing.T) {
	in := "line one   \r\n\r\n\r\n\r\nline two\t\n\nline three\n\n\n"
	assert.Equal(t, "line one\n\nline two\n\nline three", normalizeText(in))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", detectLanguage("mostly ascii clinical text"))
	assert.Equal(t, "und", detectLanguage("документ на другом языке"))
	assert.Equal(t, "und", detectLanguage(""))
}

func TestName(t *testing.T) {
	assert.Equal(t, "primary", NewExtractor("", "").Name())
	assert.Equal(t, "salvage", NewSalvageExtractor().Name())
}
