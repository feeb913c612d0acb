package checkout

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyCart    = errors.New("cart is empty")
)

// ValidationError marks input the customer has to fix; nothing was submitted.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer is the contact the store replies to.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims both fields.
func (c Customer) Normalize() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
	}
}

func (c Customer) Validate() error {
	c = c.Normalize()
	if c.Name == "" {
		return &ValidationError{Err: ErrNameRequired}
	}
	if !emailPattern.MatchString(c.Email) {
		return &ValidationError{Err: ErrInvalidEmail}
	}
	return nil
}
