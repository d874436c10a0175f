package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

// Strategy confidences are fixed per extraction routine: PDFs carry embedded
// text, images go through lossy recognition, structured documents are read
// directly, and unknown types yield near-zero confidence rather than an error.
const (
	pdfConfidence        = 0.92
	imageConfidence      = 0.78
	structuredConfidence = 0.95
	unknownConfidence    = 0.10

	unknownTypeText = "unable to extract text from this document"
)

// Extractor is the primary text extraction strategy, selecting a routine by
// declared MIME type. It returns an error only for actual processing failure;
// unknown content types degrade to a near-zero-confidence result.
type Extractor struct {
	runner   Runner
	binary   string
	language string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner replaces the command runner, used to stub OCR in tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// NewExtractor creates the primary extractor. binary and language configure
// the external OCR engine used for images.
func NewExtractor(binary, language string, opts ...Option) *Extractor {
	e := &Extractor{
		runner:   execRunner{},
		binary:   binary,
		language: language,
	}
	if e.binary == "" {
		e.binary = "tesseract"
	}
	if e.language == "" {
		e.language = "eng"
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the strategy in telemetry.
func (e *Extractor) Name() string { return "primary" }

// Extract routes the document to a per-MIME extraction routine.
func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) (*port.ExtractionResult, error) {
	contentType := normalizeContentType(doc.ContentType)

	switch {
	case contentType == "application/pdf":
		text, err := extractPDFText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("extracting pdf text: %w", err)
		}
		return result(text, pdfConfidence), nil

	case strings.HasPrefix(contentType, "image/"):
		text, err := e.imageOCR(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("running ocr: %w", err)
		}
		return result(text, imageConfidence), nil

	case isStructured(contentType):
		if !utf8.Valid(doc.Content) {
			return nil, fmt.Errorf("document %q is not valid utf-8 text", doc.Filename)
		}
		return result(string(doc.Content), structuredConfidence), nil

	default:
		return &port.ExtractionResult{
			Text:       unknownTypeText,
			Confidence: unknownConfidence,
			Language:   "und",
		}, nil
	}
}

func result(text string, confidence float64) *port.ExtractionResult {
	text = normalizeText(text)
	return &port.ExtractionResult{
		Text:       text,
		Confidence: confidence,
		Language:   detectLanguage(text),
	}
}

func isStructured(contentType string) bool {
	switch contentType {
	case "text/plain",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return true
	}
	return false
}

// normalizeContentType strips parameters like "; charset=utf-8".
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// normalizeText collapses runs of blank lines and trims the result.
func normalizeText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// detectLanguage is a rough heuristic: documents that are mostly ASCII are
// tagged English, anything else undetermined.
func detectLanguage(text string) string {
	if text == "" {
		return "und"
	}
	ascii := 0
	total := 0
	for _, r := range text {
		total++
		if r < 128 {
			ascii++
		}
	}
	if total > 0 && float64(ascii)/float64(total) >= 0.8 {
		return "en"
	}
	return "und"
}
