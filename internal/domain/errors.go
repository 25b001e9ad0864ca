package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrReportNotRetryable  = errors.New("report is not in a retryable state")

	// ErrDocumentUnreadable indicates the document produced zero decodable pages.
	ErrDocumentUnreadable = errors.New("document could not be decoded; the file may be corrupt or an unsupported format")

	// ErrNoDataExtracted indicates every chunk was attempted but nothing was
	// recovered. Distinct from an empty-but-successful extraction: this is the
	// signal that the input was likely a scanned image without a text layer.
	ErrNoDataExtracted = errors.New("no data could be extracted; the file may be a scanned image without extractable text")
)
