package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrReportNotFound       = errors.New("insight report not found")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrExtractionFailed     = errors.New("could not process this document")
	ErrAnalysisNotCompleted = errors.New("analysis has not completed yet")
	ErrInsightNotConfigured = errors.New("insight service not configured")
)
