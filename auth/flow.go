// Package auth models the backoffice sign-in screen: which form is showing and
// how it may change, plus validation of what the user typed.
package auth

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid auth transition")

// Mode is the form currently shown.
type Mode string

const (
	ModeLogin         Mode = "login"
	ModeSignUp        Mode = "sign_up"
	ModeRecovery      Mode = "recovery"       // asking for a reset link
	ModeResetPassword Mode = "reset_password" // arrived through a reset link
)

// Event is something the user or the identity provider did.
type Event string

const (
	EventShowSignUp         Event = "show_sign_up"
	EventShowLogin          Event = "show_login"
	EventForgotPassword     Event = "forgot_password"
	EventSignedUp           Event = "signed_up"
	EventRecoveryLinkOpened Event = "recovery_link_opened"
	EventPasswordUpdated    Event = "password_updated"
)

var transitions = map[Mode]map[Event]Mode{
	ModeLogin: {
		EventShowSignUp:         ModeSignUp,
		EventForgotPassword:     ModeRecovery,
		EventRecoveryLinkOpened: ModeResetPassword,
	},
	ModeSignUp: {
		EventShowLogin:          ModeLogin,
		EventSignedUp:           ModeLogin,
		EventRecoveryLinkOpened: ModeResetPassword,
	},
	ModeRecovery: {
		EventShowLogin:          ModeLogin,
		EventRecoveryLinkOpened: ModeResetPassword,
	},
	ModeResetPassword: {
		EventPasswordUpdated: ModeLogin,
	},
}

func (m Mode) Valid() bool {
	_, ok := transitions[m]
	return ok
}

// Next returns the mode reached from m on e.
func (m Mode) Next(e Event) (Mode, error) {
	next, ok := transitions[m][e]
	if !ok {
		return m, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, m, e)
	}
	return next, nil
}

// Flow tracks the mode of one sign-in screen. The zero value starts at login.
type Flow struct {
	mode Mode
}

func NewFlow() *Flow {
	return &Flow{mode: ModeLogin}
}

func (f *Flow) Mode() Mode {
	if f.mode == "" {
		return ModeLogin
	}
	return f.mode
}

// Fire applies e. An invalid event leaves the mode unchanged.
func (f *Flow) Fire(e Event) error {
	next, err := f.Mode().Next(e)
	if err != nil {
		return err
	}
	f.mode = next
	return nil
}

// Accepts reports which credentials a form asks for.
func (m Mode) Accepts() (email, password bool) {
	switch m {
	case ModeLogin, ModeSignUp:
		return true, true
	case ModeRecovery:
		return true, false
	case ModeResetPassword:
		return false, true
	}
	return false, false
}
