package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dustin/go-humanize"
)

// ValidationError is a local rejection of a selected file. Kind is
// common.ErrUnsupportedType or common.ErrTooLarge.
type ValidationError struct {
	Kind   error
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Validator checks a file against the accepted type and the size limit.
type Validator struct {
	Extension string
	MaxBytes  int64
}

// NewValidator returns a Validator, substituting .pdf and 10 MB for zero values.
func NewValidator(extension string, maxBytes int64) Validator {
	if extension == "" {
		extension = common.AcceptedExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	if maxBytes <= 0 {
		maxBytes = 10 * common.BytesPerMB
	}
	return Validator{Extension: extension, MaxBytes: maxBytes}
}

// Validate checks the extension first, then the size. A file of exactly
// MaxBytes passes.
func (v Validator) Validate(f models.LocalFile) error {
	if !strings.EqualFold(filepath.Ext(f.Name), v.Extension) {
		return &ValidationError{
			Kind:   common.ErrUnsupportedType,
			Reason: fmt.Sprintf("Only %s files are accepted", strings.ToLower(v.Extension)),
		}
	}
	if f.Size > v.MaxBytes {
		return &ValidationError{
			Kind:   common.ErrTooLarge,
			Reason: "File size exceeds the maximum limit of " + v.limit(),
		}
	}
	return nil
}

// limit renders MaxBytes as "10MB" when it is a whole number of megabytes.
func (v Validator) limit() string {
	if v.MaxBytes%common.BytesPerMB == 0 {
		return fmt.Sprintf("%dMB", v.MaxBytes/common.BytesPerMB)
	}
	return humanize.IBytes(uint64(v.MaxBytes))
}
