package extract

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

var (
	reClinicalDate = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reClinicalUnit = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|mcg|mmhg|bpm|kg|ml)\b`)
	reProviderHint = regexp.MustCompile(`\bDr\.?\s+[A-Z]`)
)

// SalvageExtractor is the fallback extraction strategy: it harvests printable
// text from the raw bytes regardless of the declared content type. Confidence
// is a heuristic based on how much clinical structure survives the salvage.
type SalvageExtractor struct{}

// NewSalvageExtractor creates the fallback extractor.
func NewSalvageExtractor() *SalvageExtractor { return &SalvageExtractor{} }

// Name identifies the strategy in telemetry.
func (s *SalvageExtractor) Name() string { return "salvage" }

// Extract harvests printable runes from the document bytes. It fails only
// when no usable text can be recovered at all.
func (s *SalvageExtractor) Extract(_ context.Context, doc domain.RawDocument) (*port.ExtractionResult, error) {
	text := normalizeText(string(printableText(doc.Content)))
	if len(text) < 8 {
		return nil, fmt.Errorf("no printable text recovered from %q", doc.Filename)
	}
	return &port.ExtractionResult{
		Text:       text,
		Confidence: heuristicConfidence(text),
		Language:   detectLanguage(text),
	}, nil
}

// printableText keeps printable runes and line structure, dropping everything
// else (binary framing, control bytes, encoding noise).
func printableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if r == '\n' || r == '\t' || (r >= 32 && r != 127) {
			out.WriteRune(r)
		}
	}
	return out.Bytes()
}

// heuristicConfidence scores salvaged text by the clinical artifacts it
// contains. Each marker adds a fixed boost over a low base.
func heuristicConfidence(text string) float64 {
	score := 0.25
	if reClinicalDate.MatchString(text) {
		score += 0.15
	}
	if reClinicalUnit.MatchString(text) {
		score += 0.15
	}
	if reProviderHint.MatchString(text) {
		score += 0.10
	}
	if len(text) > 200 && strings.Count(text, " ") > 20 {
		score += 0.10
	}
	if score > 0.75 {
		score = 0.75
	}
	return score
}
