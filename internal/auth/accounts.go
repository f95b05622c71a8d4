package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/pacelink/internal/telemetry/tracing"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// Accounts delegates sign in/out, invites and password resets to the BaaS auth server.
type Accounts struct {
	client     gotrue.Client
	serviceKey string
}

func NewAccounts(baseURL, anonKey, serviceKey string) (*Accounts, error) {
	client, err := supabase.NewClient(baseURL, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("new supabase client: %w", err)
	}
	return &Accounts{
		client:     client.Auth,
		serviceKey: serviceKey,
	}, nil
}

func toUser(u types.User) User {
	return User{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	}
}

func (a *Accounts) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.accounts.login")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	resp, err := a.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWrongPassword, err)
	}

	return &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		ExpiresAt:    resp.ExpiresAt,
		User:         toUser(resp.User),
	}, nil
}

func (a *Accounts) Logout(ctx context.Context, accessToken string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.accounts.logout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return a.client.WithToken(accessToken).Logout()
}

// Invite sends a sign-up invitation. Inviting needs the service key.
func (a *Accounts) Invite(ctx context.Context, email string) (_ *User, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.accounts.invite")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	resp, err := a.client.WithToken(a.serviceKey).Invite(types.InviteRequest{Email: email})
	if err != nil {
		return nil, err
	}

	u := toUser(resp.User)
	return &u, nil
}

func (a *Accounts) ResetPassword(ctx context.Context, email string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.accounts.reset")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}

	return a.client.Recover(types.RecoverRequest{Email: email})
}

func (a *Accounts) CurrentUser(ctx context.Context, accessToken string) (_ *User, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.accounts.current_user")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	resp, err := a.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, err
	}

	u := toUser(resp.User)
	return &u, nil
}
