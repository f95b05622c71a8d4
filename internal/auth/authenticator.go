package auth

import (
	"context"
	"fmt"
)

type contextKey int

const claimsContextKey contextKey = iota

type revocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Authenticator verifies an access token and rejects signed-out ones.
type Authenticator struct {
	verifier    *Verifier
	revocations revocationChecker
}

func NewAuthenticator(verifier *Verifier, revocations revocationChecker) *Authenticator {
	return &Authenticator{
		verifier:    verifier,
		revocations: revocations,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revoked token: %w", err)
	}
	if revoked {
		return nil, ErrSessionExpired
	}

	return claims, nil
}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// TrainerID returns the signed-in trainer of the request context.
func TrainerID(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.TrainerID == "" {
		return "", false
	}
	return claims.TrainerID, true
}
