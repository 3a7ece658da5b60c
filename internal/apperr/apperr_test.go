package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	code, status := Classify(fmt.Errorf("get event: %w", ErrNotFound))
	assert.Equal(t, CodeNotFound, code)
	assert.Equal(t, http.StatusNotFound, status)

	code, status = Classify(ErrAlreadyRegistered)
	assert.Equal(t, CodeAlreadyRegistered, code)
	assert.Equal(t, http.StatusConflict, status)

	code, status = Classify(errors.New("boom"))
	assert.Equal(t, CodeInternal, code)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestFromCodeRoundTrip(t *testing.T) {
	for _, err := range []error{ErrInvalidCredentials, ErrValidation, ErrNotFound, ErrAlreadyRegistered, ErrUnauthorized, ErrForbidden} {
		code, _ := Classify(err)
		assert.ErrorIs(t, FromCode(code), err)
	}
	assert.Nil(t, FromCode("nope"))
}

func TestValidationWrapsDetails(t *testing.T) {
	details := errors.New("title: required")
	err := Validation(details)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, details)
	assert.Equal(t, "validation failed: title: required", err.Error())

	var fe *FieldError
	assert.True(t, errors.As(err, &fe))
}
