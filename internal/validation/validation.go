package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// Field limits follow the registration and booking forms. Lengths are counted
// in runes so cyrillic input is not penalized.
const (
	UsernameMin = 3
	UsernameMax = 50
	PasswordMin = 6
	PasswordMax = 200
	TripTextMin = 2
	TripTextMax = 100
	FullNameMin = 2
	FullNameMax = 200
)

func Username(v string) error {
	return length("username", v, UsernameMin, UsernameMax)
}

// Password checks length only. Complexity rules are deliberately absent.
func Password(v string) error {
	return length("password", v, PasswordMin, PasswordMax)
}

// TripText validates origin and destination fields.
func TripText(field, v string) error {
	return length(field, v, TripTextMin, TripTextMax)
}

func FullName(v string) error {
	return length("full_name", v, FullNameMin, FullNameMax)
}

func Email(v string) error {
	if _, err := mail.ParseAddress(v); err != nil {
		return fmt.Errorf("email: invalid address")
	}
	return nil
}

func length(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min {
		return fmt.Errorf("%s: must be at least %d characters", field, min)
	}
	if n > max {
		return fmt.Errorf("%s: must be at most %d characters", field, max)
	}
	return nil
}
