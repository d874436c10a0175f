package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lifebook/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"File Name",
	"Status",
	"Category",
	"Tags",
	"Language",
	"Confidence",
	"Conditions",
	"Medications",
	"Procedures",
	"Dates",
	"Providers",
	"Measurements",
	"Entity Count",
	"Analysis Error",
	"Analyzed At",
	"Created At",
}

// Writer wraps csv.Writer for exporting analyses as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalyses converts a batch of analyses to CSV rows and writes them.
// Filenames come from a lookup keyed by file ID; rows with no match carry
// the file ID instead.
func (w *Writer) WriteAnalyses(analyses []domain.DocumentAnalysis, fileNames map[string]string) error {
	for i := range analyses {
		row := analysisToRow(&analyses[i], fileNames)
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// analysisToRow converts a single analysis to a string slice matching columns.
// Entity columns are left empty for analyses that never completed.
func analysisToRow(a *domain.DocumentAnalysis, fileNames map[string]string) []string {
	row := make([]string, len(columns))

	name := fileNames[a.FileID.String()]
	if name == "" {
		name = a.FileID.String()
	}

	row[0] = name
	row[1] = string(a.Status)
	row[2] = string(a.Category)
	row[3] = strings.Join(a.Tags.Sorted(), "; ")
	row[4] = a.Language
	row[5] = strconv.FormatFloat(a.Confidence, 'f', 2, 64)
	row[13] = a.AnalysisError
	row[14] = formatTime(a.AnalyzedAt)
	row[15] = a.CreatedAt.Format(time.RFC3339)

	if a.Status != domain.AnalysisStatusCompleted {
		return row
	}

	row[6] = joinEntities(a.Entities[domain.EntityCondition])
	row[7] = joinEntities(a.Entities[domain.EntityMedication])
	row[8] = joinEntities(a.Entities[domain.EntityProcedure])
	row[9] = joinEntities(a.Entities[domain.EntityDate])
	row[10] = joinEntities(a.Entities[domain.EntityProvider])
	row[11] = joinEntities(a.Entities[domain.EntityMeasurement])
	row[12] = strconv.Itoa(a.Entities.Count())

	return row
}

func joinEntities(list []domain.Entity) string {
	texts := make([]string, 0, len(list))
	for _, e := range list {
		texts = append(texts, e.Text)
	}
	return strings.Join(texts, "; ")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
