package validate

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	assert.NoError(t, Collect(Required("title", "x"), nil))

	err := Collect(Required("title", "  "), MinLen("password", "abc", 6))
	var errs Errs
	assert.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
	assert.Equal(t, "title: required; password: too short", err.Error())
}

func TestMatchAndCheck(t *testing.T) {
	re := regexp.MustCompile(`^\d+$`)
	assert.Nil(t, Match("n", "", re, "digits"))
	assert.Nil(t, Match("n", "42", re, "digits"))
	assert.Equal(t, &ErrField{Field: "n", Msg: "digits"}, Match("n", "4x", re, "digits"))

	assert.Nil(t, Check("ok", true, "nope"))
	assert.NotNil(t, Check("ok", false, "nope"))
}
