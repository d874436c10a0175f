package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeTXT  FileType = "txt"
	FileTypeDOCX FileType = "docx"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeTXT:  "text/plain",
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"text/plain":      FileTypeTXT,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDOCX,
	"application/zip": FileTypeDOCX, // docx containers are detected as zip by magic bytes
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"txt":  FileTypeTXT,
	"docx": FileTypeDOCX,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// EntityCategory classifies a recognized token in extracted text.
type EntityCategory string

const (
	EntityCondition   EntityCategory = "condition"
	EntityMedication  EntityCategory = "medication"
	EntityProcedure   EntityCategory = "procedure"
	EntityDate        EntityCategory = "date"
	EntityProvider    EntityCategory = "provider"
	EntityMeasurement EntityCategory = "measurement"
)

// EntityCategories lists all entity categories in a stable order.
var EntityCategories = []EntityCategory{
	EntityCondition,
	EntityMedication,
	EntityProcedure,
	EntityDate,
	EntityProvider,
	EntityMeasurement,
}

// DocumentCategory is the single classification label assigned to a document.
type DocumentCategory string

const (
	CategoryPrescriptions DocumentCategory = "Prescriptions"
	CategoryLabResults    DocumentCategory = "Lab Results"
	CategoryImaging       DocumentCategory = "Imaging"
	CategoryVisitNotes    DocumentCategory = "Visit Notes"
	CategoryVaccinations  DocumentCategory = "Vaccinations"
	CategoryProcedures    DocumentCategory = "Procedures"
	CategoryInsurance     DocumentCategory = "Insurance"
	CategoryGeneral       DocumentCategory = "General"
)

// DocumentCategories lists the eight assignable category labels.
var DocumentCategories = []DocumentCategory{
	CategoryPrescriptions,
	CategoryLabResults,
	CategoryImaging,
	CategoryVisitNotes,
	CategoryVaccinations,
	CategoryProcedures,
	CategoryInsurance,
	CategoryGeneral,
}

// AnalysisStatus represents the lifecycle of a document analysis.
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// InsightSource records which interpretation path produced an insight report.
// Stored for telemetry only; never exposed to API consumers.
type InsightSource string

const (
	InsightSourceJSON     InsightSource = "json"
	InsightSourceFreeText InsightSource = "free_text"
	InsightSourceFallback InsightSource = "fallback"
)

// VocabularyCategory identifies which extraction pass a vocabulary term feeds.
type VocabularyCategory string

const (
	VocabCondition  VocabularyCategory = "condition"
	VocabMedication VocabularyCategory = "medication"
	VocabProcedure  VocabularyCategory = "procedure"
)
