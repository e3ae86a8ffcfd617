package validator

import (
	"errors"
	"testing"

	"github.com/futig/permitcheck/internal/config"
	"github.com/futig/permitcheck/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1 << 20

func newTestValidator() *Validator {
	return NewValidator(config.FileUploadConfig{MaxFileSize: 10 * mib, MaxUploadSize: 12 * mib})
}

func TestValidateUploadAcceptsAllowedKinds(t *testing.T) {
	v := newTestValidator()

	for _, name := range []string{"plan.pdf", "plan.DOCX", "plan.doc", "photo.jpeg", "photo.jpg", "photo.png"} {
		err := v.ValidateUpload(&entity.UploadFile{Filename: name, Size: 1024})
		assert.NoError(t, err, name)
	}
}

func TestValidateUploadAcceptsExactLimit(t *testing.T) {
	v := newTestValidator()
	assert.NoError(t, v.ValidateUpload(&entity.UploadFile{Filename: "plan.pdf", Size: 10 * mib}))
}

func TestValidateUploadRejectsKind(t *testing.T) {
	v := newTestValidator()

	for _, name := range []string{"plan.txt", "archive.zip", "drawing.dwg", "noext"} {
		err := v.ValidateUpload(&entity.UploadFile{Filename: name, Size: 10})

		var ve *entity.ValidationError
		require.True(t, errors.As(err, &ve), name)
		assert.Equal(t, ConstraintKind, ve.Constraint)
		assert.True(t, errors.Is(err, entity.ErrInvalidExtension))
	}
}

func TestValidateUploadRejectsSize(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateUpload(&entity.UploadFile{Filename: "plan.pdf", Size: 12 * mib})

	var ve *entity.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ConstraintSize, ve.Constraint)
	assert.True(t, errors.Is(err, entity.ErrFileTooLarge))
	assert.Contains(t, ve.Error(), "10 MiB")
}

func TestValidateUploadUsesContentTypeWithoutExtension(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateUpload(&entity.UploadFile{Filename: "scan", ContentType: "image/png", Size: 10}))
	assert.Error(t, v.ValidateUpload(&entity.UploadFile{Filename: "scan", ContentType: "text/plain", Size: 10}))
}

func TestValidateUploadMissingFile(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateUpload(nil)
	assert.True(t, entity.IsValidationError(err))
	assert.True(t, errors.Is(err, entity.ErrMissingField))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "pdf", KindOf("a.PDF", ""))
	assert.Equal(t, "docx", KindOf("", docxMediaType))
	assert.Equal(t, "jpeg", KindOf("", "image/jpeg; charset=binary"))
	assert.Equal(t, "", KindOf("", ""))
}

func TestValidateProject(t *testing.T) {
	v := newTestValidator()

	valid := &entity.ProjectInput{Description: "24x30 garage"}
	valid.Normalize()
	assert.NoError(t, v.ValidateProject(valid))

	blank := &entity.ProjectInput{Description: "   "}
	blank.Normalize()
	err := v.ValidateProject(blank)
	assert.True(t, errors.Is(err, entity.ErrMissingField))
	assert.Contains(t, err.Error(), "description")

	badEnum := &entity.ProjectInput{Description: "tower", StructureType: "skyscraper", PropertyType: entity.PropertyCommercial}
	err = v.ValidateProject(badEnum)
	assert.True(t, errors.Is(err, entity.ErrInvalidParameter))
	assert.Contains(t, err.Error(), "structure_type")
}

func TestValidateVisualAndExport(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateVisual(&entity.GenerateVisualRequest{VisualType: entity.VisualSitePlan}))
	assert.True(t, errors.Is(v.ValidateVisual(&entity.GenerateVisualRequest{VisualType: "sketch"}), entity.ErrInvalidVisualType))

	assert.NoError(t, v.ValidateExportKind(entity.ExportChecklist))
	assert.True(t, errors.Is(v.ValidateExportKind("zip"), entity.ErrInvalidExportKind))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "My_Plan_v2.pdf", SanitizeFilename("../tmp/My Plan (v2).pdf"))
}

func TestValidateUploadSize(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateUploadSize(10*mib))

	err := v.ValidateUploadSize(12*mib + 1)
	var ve *entity.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, ConstraintSize, ve.Constraint)
}
