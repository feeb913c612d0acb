package auth

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength    = 255
	minPasswordLength = 6
	maxPasswordLength = 100
)

var (
	ErrInvalidEmail      = errors.New("invalid email")
	ErrPasswordTooShort  = errors.New("password must have at least 6 characters")
	ErrPasswordTooLong   = errors.New("password must have at most 100 characters")
	ErrPasswordsMismatch = errors.New("passwords do not match")
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate trims both fields and checks them for the given mode.
func (c *Credentials) Validate(mode Mode) error {
	c.Email = strings.TrimSpace(c.Email)
	c.Password = strings.TrimSpace(c.Password)

	wantEmail, wantPassword := mode.Accepts()
	if wantEmail {
		if err := validateEmail(c.Email); err != nil {
			return err
		}
	}
	if wantPassword {
		return validatePassword(c.Password)
	}
	return nil
}

// ValidateNewPassword checks the reset-password form.
func ValidateNewPassword(password, confirmation string) error {
	password = strings.TrimSpace(password)
	if err := validatePassword(password); err != nil {
		return err
	}
	if password != strings.TrimSpace(confirmation) {
		return ErrPasswordsMismatch
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case n < minPasswordLength:
		return ErrPasswordTooShort
	case n > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
