package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"lifebook/internal/domain"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		log.Printf("extract.execRunner: %s failed after %s: %v (stderr: %s)",
			name, time.Since(start), err, truncate(errb.String(), 2048))
	}
	return out.Bytes(), errb.Bytes(), err
}

// imageOCR runs the external OCR engine over an uploaded image. The engine
// only reads from disk, so the bytes go through a temp file.
func (e *Extractor) imageOCR(ctx context.Context, doc domain.RawDocument) (string, error) {
	tmp, err := os.CreateTemp("", "lifebook-ocr-*"+imageExt(doc.ContentType))
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(doc.Content); err != nil {
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	// tesseract <file> stdout -l <lang>
	out, _, err := e.runner.Run(ctx, e.binary, tmp.Name(), "stdout", "-l", e.language)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.binary, err)
	}
	return string(out), nil
}

func imageExt(contentType string) string {
	if normalizeContentType(contentType) == "image/jpeg" {
		return ".jpg"
	}
	return ".png"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
