package prompts

import (
	"strings"
	"unicode/utf8"
)

type Validator func(Input, Limits) error

func RequireNonEmpty(field string, get func(Input) string) Validator {
	return func(in Input, _ Limits) error {
		if strings.TrimSpace(get(in)) == "" {
			return &MissingFieldError{Field: field}
		}
		return nil
	}
}

func MaxChars(field string, get func(Input) string, limit func(Limits) int) Validator {
	return func(in Input, lim Limits) error {
		max := limit(lim)
		if max <= 0 {
			return nil
		}
		if n := utf8.RuneCountInString(get(in)); n > max {
			return &LimitError{Field: field, Len: n, Max: max}
		}
		return nil
	}
}

func RequirePositiveDays() Validator {
	return func(in Input, _ Limits) error {
		if in.Days < 1 {
			return &MissingFieldError{Field: "duration"}
		}
		return nil
	}
}
