package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"goflare.io/atelier/auth"
)

type LoginResponse struct {
	Token string `json:"token"`
}

// adminAccount is the single backoffice account.
type adminAccount struct {
	email    string
	password string
	token    string
}

func (a adminAccount) enabled() bool {
	return a.email != "" && a.password != "" && a.token != ""
}

// matches compares both fields in constant time. Email case is ignored.
func (a adminAccount) matches(creds auth.Credentials) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(creds.Email)), []byte(strings.ToLower(a.email)))
	passwordOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.password))
	return emailOK&passwordOK == 1
}

// adminLogin trades the admin email and password for the bearer token the
// rest of the admin API expects.
func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if err := creds.Validate(auth.ModeLogin); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
		return
	}

	if !h.admin.enabled() {
		respondError(w, http.StatusUnauthorized, "unauthorized", "admin sign-in is disabled")
		return
	}
	if !h.admin.matches(creds) {
		h.logger.Warn("Admin sign-in rejected", zap.String("email", creds.Email))
		respondError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: h.admin.token})
}
