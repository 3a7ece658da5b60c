package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinLen(field, value string, min int) *ErrField {
	if utf8.RuneCountInString(value) < min {
		return &ErrField{Field: field, Msg: "too short"}
	}
	return nil
}

// Match skips empty values; pair it with Required when the field is mandatory.
func Match(field, value string, re *regexp.Regexp, msg string) *ErrField {
	if value != "" && !re.MatchString(value) {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

func Check(field string, ok bool, msg string) *ErrField {
	if !ok {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

// Collect drops nil helpers and returns nil when nothing failed.
func Collect(fields ...*ErrField) error {
	var errs Errs
	for _, f := range fields {
		if f != nil {
			errs = append(errs, *f)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
