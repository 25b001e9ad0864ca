package domain

// FileType represents the allowed file types for lab report upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// ExtractionStatus represents the lifecycle of a lab report extraction.
type ExtractionStatus string

const (
	ExtractionStatusQueued     ExtractionStatus = "queued"
	ExtractionStatusProcessing ExtractionStatus = "processing"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusFailed     ExtractionStatus = "failed"
)

// SensitivityLevel is the severity of an extracted food-reactivity finding.
type SensitivityLevel string

const (
	SensitivityHigh   SensitivityLevel = "high"
	SensitivityMedium SensitivityLevel = "medium"
	SensitivityLow    SensitivityLevel = "low"
)

// BiomarkerStatus flags an extracted measurement against its reference range.
type BiomarkerStatus string

const (
	BiomarkerNormal BiomarkerStatus = "normal"
	BiomarkerHigh   BiomarkerStatus = "high"
	BiomarkerLow    BiomarkerStatus = "low"
)

// RecordSource identifies where a health record came from.
type RecordSource string

const (
	SourceLabReport RecordSource = "lab_report"
	SourceManual    RecordSource = "manual"
)
