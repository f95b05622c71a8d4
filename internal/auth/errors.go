package auth

import (
	"errors"
	"net/http"

	"github.com/2beens/pacelink/pkg"
)

var (
	ErrMissingToken   = errors.New("missing access token")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid access token")
	ErrMissingEmail   = errors.New("missing email")
	ErrWrongPassword  = errors.New("wrong email or password")
)

// LoginPath is where clients are sent when their session is missing or expired.
const LoginPath = "/a/login"

// WriteUnauthorized answers 401 with the login entry point in the body.
func WriteUnauthorized(w http.ResponseWriter, err error) {
	msg := ErrInvalidToken.Error()
	switch {
	case errors.Is(err, ErrSessionExpired):
		msg = ErrSessionExpired.Error()
	case errors.Is(err, ErrMissingToken):
		msg = ErrMissingToken.Error()
	case errors.Is(err, ErrWrongPassword):
		msg = ErrWrongPassword.Error()
	}
	pkg.WriteJSON(w, pkg.ErrorResponse{Error: msg, Login: LoginPath}, http.StatusUnauthorized)
}
