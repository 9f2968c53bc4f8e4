package services

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(".pdf", 10*mb)

	tests := []struct {
		name    string
		file    models.LocalFile
		wantErr error
		reason  string
	}{
		{name: "small pdf", file: models.LocalFile{Name: "x.pdf", Size: 1024}},
		{name: "exactly max", file: models.LocalFile{Name: "x.pdf", Size: 10 * mb}},
		{name: "upper-case extension", file: models.LocalFile{Name: "RULING.PDF", Size: 1}},
		{name: "docx", file: models.LocalFile{Name: "x.docx", Size: 1},
			wantErr: common.ErrUnsupportedType, reason: "Only .pdf files are accepted"},
		{name: "no extension", file: models.LocalFile{Name: "pdf", Size: 1},
			wantErr: common.ErrUnsupportedType},
		{name: "one byte over", file: models.LocalFile{Name: "x.pdf", Size: 10*mb + 1},
			wantErr: common.ErrTooLarge, reason: "File size exceeds the maximum limit of 10MB"},
		{name: "type checked before size", file: models.LocalFile{Name: "x.txt", Size: 50 * mb},
			wantErr: common.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.reason != "" {
				assert.Equal(t, tt.reason, verr.Reason)
				assert.Equal(t, tt.reason, err.Error())
			}
		})
	}
}

func TestNewValidator_Defaults(t *testing.T) {
	v := NewValidator("", 0)
	assert.Equal(t, ".pdf", v.Extension)
	assert.EqualValues(t, 10*mb, v.MaxBytes)

	assert.Equal(t, ".pdf", NewValidator("pdf", 1).Extension)
}

func TestValidator_OddLimitIsHumanized(t *testing.T) {
	v := NewValidator(".pdf", 1536*1024)

	err := v.Validate(models.LocalFile{Name: "x.pdf", Size: 2 * mb})
	require.ErrorIs(t, err, common.ErrTooLarge)
	assert.Equal(t, "File size exceeds the maximum limit of 1.5 MiB", err.Error())
}
