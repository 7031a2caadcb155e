// Package password contains utilities for managing passwords.
package password

import (
	"errors"
	"regexp"
	"strings"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength      = 8
	maximumLength      = 128
	minimumEntropyBits = 50
	minimumAttrLength  = 3
)

var (
	letterRe = regexp.MustCompile(`\pL`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

var (
	ErrTooShort       = errors.New("password must be at least 8 characters long")
	ErrTooLong        = errors.New("password must be at most 128 characters long")
	ErrNoLetter       = errors.New("password must contain at least one letter")
	ErrNoDigit        = errors.New("password must contain at least one digit")
	ErrTooSimilar     = errors.New("password is too similar to the account details")
	ErrTooWeak        = errors.New("password is too weak")
	ErrEmptyAttribute = errors.New("empty account attribute")
)

// Check returns every rule password breaks. Attributes are account
// details such as the username or email that the password must not
// contain.
func Check(password string, attributes ...string) []error {
	var problems []error
	if len(password) < minimumLength {
		problems = append(problems, ErrTooShort)
	}
	if len(password) > maximumLength {
		problems = append(problems, ErrTooLong)
	}
	if !letterRe.MatchString(password) {
		problems = append(problems, ErrNoLetter)
	}
	if !digitRe.MatchString(password) {
		problems = append(problems, ErrNoDigit)
	}

	lowered := strings.ToLower(password)
	for _, attr := range attributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		// Only the local part of an email is meaningful here.
		if at := strings.IndexByte(attr, '@'); at > 0 {
			attr = attr[:at]
		}
		if len(attr) >= minimumAttrLength && strings.Contains(lowered, attr) {
			problems = append(problems, ErrTooSimilar)
			break
		}
	}

	if err := passwordvalidator.Validate(password, minimumEntropyBits); err != nil {
		problems = append(problems, errors.Join(ErrTooWeak, err))
	}

	return problems
}

// ValidatePassword joins the problems reported by Check.
func ValidatePassword(password string, attributes ...string) error {
	return errors.Join(Check(password, attributes...)...)
}
