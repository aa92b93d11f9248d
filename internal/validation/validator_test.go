package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
)

type markReadRequest struct {
	PageReading int `json:"page_reading" validate:"required,gte=1"`
}

type ratingRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

func TestValidate_Success(t *testing.T) {
	v := New()

	err := v.Validate(markReadRequest{PageReading: 50})
	assert.NoError(t, err)

	err = v.Validate(ratingRequest{Rating: 5})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(ratingRequest{Rating: 9})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok, "details should be a field error map")
	assert.Contains(t, details, "rating")
	assert.Equal(t, "must be less than or equal to 5", details["rating"])
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()

	err := v.Validate(markReadRequest{})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "page_reading")
}
