package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RawDocument is the immutable input to the analysis pipeline: the uploaded
// bytes plus the metadata needed to pick an extraction strategy.
type RawDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Entity is a recognized domain-specific token found in extracted text.
// Entities are value objects; duplicates are permitted.
type Entity struct {
	Text       string         `json:"text"`
	Category   EntityCategory `json:"category"`
	Confidence float64        `json:"confidence"`
}

// EntitySet maps category to entities in discovery order.
type EntitySet map[EntityCategory][]Entity

// Count returns the total number of entities across all categories.
func (s EntitySet) Count() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}

// Value implements driver.Valuer so an EntitySet persists as JSONB.
func (s EntitySet) Value() (driver.Value, error) {
	if s == nil {
		s = EntitySet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling entity set: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (s *EntitySet) Scan(src interface{}) error {
	return scanJSON(src, s, "entity set")
}

// TagSet is an unordered set of supplementary labels. JSON and database
// representations are sorted for deterministic output.
type TagSet map[string]struct{}

// Add inserts a tag into the set.
func (t TagSet) Add(tag string) { t[tag] = struct{}{} }

// Has reports whether the tag is present.
func (t TagSet) Has(tag string) bool {
	_, ok := t[tag]
	return ok
}

// Sorted returns the tags as a sorted slice.
func (t TagSet) Sorted() []string {
	out := make([]string, 0, len(t))
	for tag := range t {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON renders the set as a sorted JSON array.
func (t TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Sorted())
}

// UnmarshalJSON reads either a JSON array of strings.
func (t *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*t = make(TagSet, len(tags))
	for _, tag := range tags {
		(*t)[tag] = struct{}{}
	}
	return nil
}

// Value implements driver.Valuer so a TagSet persists as JSONB.
func (t TagSet) Value() (driver.Value, error) {
	if t == nil {
		t = TagSet{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling tag set: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (t *TagSet) Scan(src interface{}) error {
	return scanJSON(src, t, "tag set")
}

// StringList is a JSONB-backed list of strings used by insight report fields.
type StringList []string

// Value implements driver.Valuer. A nil list persists as an empty array.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling string list: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l, "string list")
}

func scanJSON(src, dst interface{}, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported source type %T for %s", src, what)
	}
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// DocumentAnalysis is the persisted result of one pipeline run over a document.
// Immutable after the run completes.
type DocumentAnalysis struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	FileID        uuid.UUID        `db:"file_id" json:"file_id"`
	Category      DocumentCategory `db:"category" json:"category"`
	Tags          TagSet           `db:"tags" json:"tags"`
	ExtractedText string           `db:"extracted_text" json:"extracted_text"`
	Language      string           `db:"language" json:"language"`
	Confidence    float64          `db:"confidence" json:"confidence"`
	Entities      EntitySet        `db:"entities" json:"entities"`
	Status        AnalysisStatus   `db:"status" json:"status"`
	AnalysisError string           `db:"analysis_error" json:"analysis_error,omitempty"`
	AnalyzedAt    *time.Time       `db:"analyzed_at" json:"analyzed_at,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// MedicalInsightReport is the structured, validated output of the external
// enrichment path. After validation every list field is non-nil, KeyFindings
// has at least one entry and Recommendations at least four.
type MedicalInsightReport struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	AnalysisID      uuid.UUID     `db:"analysis_id" json:"analysis_id"`
	Summary         string        `db:"summary" json:"summary"`
	KeyFindings     StringList    `db:"key_findings" json:"key_findings"`
	Recommendations StringList    `db:"recommendations" json:"recommendations"`
	MedicalTerms    StringList    `db:"medical_terms" json:"medical_terms"`
	Metrics         StringList    `db:"metrics" json:"metrics"`
	UrgentItems     StringList    `db:"urgent_items" json:"urgent_items"`
	Confidence      float64       `db:"confidence" json:"confidence"`
	Category        string        `db:"category" json:"category"`
	Source          InsightSource `db:"source" json:"-"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// VocabularyTerm is one entry in the clinical vocabulary used by entity
// extraction. Terms are data, loaded at startup, never compiled in.
type VocabularyTerm struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	Category  VocabularyCategory `db:"category" json:"category"`
	Term      string             `db:"term" json:"term"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}
