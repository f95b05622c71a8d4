package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type accountsService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, accessToken string) error
	Invite(ctx context.Context, email string) (*User, error)
	ResetPassword(ctx context.Context, email string) error
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

type Handler struct {
	accounts accountsService
	verifier *Verifier
	revoker  tokenRevoker
}

func NewHandler(accounts accountsService, verifier *Verifier, revoker tokenRevoker) *Handler {
	return &Handler{
		accounts: accounts,
		verifier: verifier,
		revoker:  revoker,
	}
}

// SetupRoutes mounts the account routes under /a; middlewares (rate limiting) apply to these routes only.
// SetupRoutes registers the /a routes. loginMiddlewares wrap /a/login only.
func (h *Handler) SetupRoutes(mainRouter *mux.Router, loginMiddlewares ...mux.MiddlewareFunc) {
	authRouter := mainRouter.PathPrefix("/a").Subrouter()

	loginRouter := authRouter.PathPrefix("/login").Subrouter()
	loginRouter.HandleFunc("", h.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.Use(loginMiddlewares...)

	authRouter.HandleFunc("/logout", h.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/invite", h.HandleInvite).Methods("POST", "OPTIONS").Name("invite")
	authRouter.HandleFunc("/reset", h.HandleReset).Methods("POST", "OPTIONS").Name("reset-password")
	authRouter.HandleFunc("/me", h.HandleMe).Methods("GET", "OPTIONS").Name("me")
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Errorf("login, decode credentials: %s", err)
		pkg.WriteJSONError(w, "invalid login request", http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		pkg.WriteJSONError(w, "email and password required", http.StatusBadRequest)
		return
	}

	session, err := h.accounts.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		log.Warnf("login [%s] failed: %s", creds.Email, err)
		if errors.Is(err, ErrWrongPassword) {
			WriteUnauthorized(w, err)
			return
		}
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Debugf("trainer [%s] signed in", session.User.ID)
	pkg.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		WriteUnauthorized(w, err)
		return
	}

	claims, err := h.verifier.Verify(token)
	switch {
	case errors.Is(err, ErrSessionExpired):
		// nothing left to revoke
		pkg.WriteJSON(w, map[string]bool{"logged_out": true}, http.StatusOK)
		return
	case err != nil:
		WriteUnauthorized(w, err)
		return
	}

	if err := h.revoker.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		log.Errorf("logout, revoke token of [%s]: %s", claims.TrainerID, err)
		pkg.WriteJSONError(w, "logout failed", http.StatusInternalServerError)
		return
	}

	if err := h.accounts.Logout(ctx, token); err != nil {
		// the token is revoked locally either way
		log.Warnf("logout [%s] on auth server: %s", claims.TrainerID, err)
	}

	pkg.WriteJSON(w, map[string]bool{"logged_out": true}, http.StatusOK)
}

func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.invite")
	defer span.End()

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		WriteUnauthorized(w, ErrMissingToken)
		return
	}

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid invite request", http.StatusBadRequest)
		return
	}

	invited, err := h.accounts.Invite(ctx, req.Email)
	if err != nil {
		log.Errorf("trainer [%s] invite [%s]: %s", claims.TrainerID, req.Email, err)
		status := http.StatusBadGateway
		if errors.Is(err, ErrMissingEmail) {
			status = http.StatusBadRequest
		}
		pkg.WriteJSONError(w, err.Error(), status)
		return
	}

	pkg.WriteJSON(w, invited, http.StatusCreated)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.reset")
	defer span.End()

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid reset request", http.StatusBadRequest)
		return
	}

	if err := h.accounts.ResetPassword(ctx, req.Email); err != nil {
		if errors.Is(err, ErrMissingEmail) {
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		// do not reveal whether the account exists
		log.Warnf("reset password [%s]: %s", req.Email, err)
	}

	pkg.WriteJSON(w, map[string]bool{"sent": true}, http.StatusOK)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		WriteUnauthorized(w, err)
		return
	}

	user, err := h.accounts.CurrentUser(ctx, token)
	if err != nil {
		log.Warnf("current user: %s", err)
		WriteUnauthorized(w, ErrSessionExpired)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}
