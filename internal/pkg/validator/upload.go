package validator

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/entity"
	"github.com/futig/permitcheck/internal/pkg/metrics"
	playground "github.com/go-playground/validator/v10"
)

const (
	ConstraintKind = "kind"
	ConstraintSize = "size"
	ConstraintName = "name"
)

// AllowedKinds are the document kinds accepted for review.
var AllowedKinds = map[string]bool{
	"pdf":  true,
	"docx": true,
	"doc":  true,
	"jpeg": true,
	"jpg":  true,
	"png":  true,
}

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var contentTypeKinds = map[string]string{
	"application/pdf":    "pdf",
	"application/msword": "doc",
	docxMediaType:        "docx",
	"image/jpeg":         "jpeg",
	"image/jpg":          "jpg",
	"image/png":          "png",
}

// Validator guards uploads and user input before any remote call is made.
type Validator struct {
	cfg     config.FileUploadConfig
	structs *playground.Validate
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{
		cfg:     cfg,
		structs: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// MaxFileSize is the upload size ceiling in bytes.
func (v *Validator) MaxFileSize() int64 {
	return v.cfg.MaxFileSize
}

// ValidateUpload accepts a file only if its kind is allowed and it fits under the size ceiling.
// It never mutates anything and never touches the network.
func (v *Validator) ValidateUpload(file *entity.UploadFile) error {
	if file == nil || (file.Filename == "" && file.ContentType == "") {
		return reject(ConstraintName, "a document file is required", entity.ErrMissingField)
	}

	kind := KindOf(file.Filename, file.ContentType)
	if !AllowedKinds[kind] {
		shown := kind
		if shown == "" {
			shown = "unknown"
		}
		return reject(ConstraintKind,
			fmt.Sprintf("file kind %q is not supported: upload a PDF, DOCX, DOC, JPG or PNG file", shown),
			entity.ErrInvalidExtension)
	}

	if file.Size > v.cfg.MaxFileSize {
		return reject(ConstraintSize,
			fmt.Sprintf("file '%s' is %d bytes, the limit is %d bytes (%s)", file.Filename, file.Size, v.cfg.MaxFileSize, humanSize(v.cfg.MaxFileSize)),
			entity.ErrFileTooLarge)
	}

	return nil
}

// ValidateUploadSize rejects a request body that was cut off at the multipart limit
// before the file inside it could be inspected.
func (v *Validator) ValidateUploadSize(size int64) error {
	if size > v.cfg.MaxFileSize {
		return reject(ConstraintSize,
			fmt.Sprintf("upload exceeds the %s file size limit", humanSize(v.cfg.MaxFileSize)),
			entity.ErrFileTooLarge)
	}
	return nil
}

// MaxUploadSize is the ceiling for a whole multipart request.
func (v *Validator) MaxUploadSize() int64 {
	return v.cfg.MaxUploadSize
}

// KindOf derives the document kind from the file extension, falling back to the declared media type.
func KindOf(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return contentTypeKinds[strings.ToLower(mediaType)]
}

// SanitizeFilename sanitizes a filename before it is forwarded
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		"\"", "",
	)
	return replacer.Replace(filename)
}

func reject(constraint, message string, cause error) error {
	metrics.IncreaseValidationRejectionMetric(constraint)
	return &entity.ValidationError{
		Constraint: constraint,
		Message:    message,
		Err:        cause,
	}
}

func humanSize(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%d MiB", n/mib)
	}
	return fmt.Sprintf("%.1f MiB", float64(n)/mib)
}
