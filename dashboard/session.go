package dashboard

import (
	"context"

	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authservice"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/log"
)

// Session tracks who is signed in. A persisted token is re-validated
// against the server on startup; when that fails for any reason the
// session silently falls back to signed-out and the stale token is
// discarded.
type Session struct {
	auth   authservice.Service
	store  Store
	logger log.Logger

	token         string
	user          usersvc.User
	authenticated bool
}

func NewSession(ctx context.Context, auth authservice.Service, store Store, logger log.Logger) *Session {
	s := &Session{
		auth:   auth,
		store:  store,
		logger: logger,
	}

	if token := store.Token(); token != "" {
		s.resume(ctx, token)
	}

	return s
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.establish(token, user)
	return nil
}

func (s *Session) Register(ctx context.Context, name, email, password string) error {
	token, user, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	s.establish(token, user)
	return nil
}

// Logout is purely local. The server keeps the token until it expires,
// but nothing on this side remembers it anymore.
func (s *Session) Logout() {
	s.reset()
}

func (s *Session) IsAuthenticated() bool { return s.authenticated }

func (s *Session) User() usersvc.User { return s.user }

func (s *Session) Token() string { return s.token }

// Context attaches the session token as the default bearer credential,
// so every call made with it authenticates as the signed-in user.
func (s *Session) Context(ctx context.Context) context.Context {
	if s.token == "" {
		return ctx
	}
	return context.WithValue(ctx, kitjwt.JWTTokenContextKey, s.token)
}

func (s *Session) establish(token string, user usersvc.User) {
	s.token = token
	s.user = user
	s.authenticated = true

	if err := s.store.SetToken(token); err != nil {
		s.logger.Log("during", "SetToken", "err", err)
	}
}

func (s *Session) resume(ctx context.Context, token string) {
	s.token = token

	user, err := s.auth.Verify(s.Context(ctx), "", "")
	if err != nil {
		s.logger.Log("during", "Verify", "err", err)
		s.reset()
		return
	}

	s.user = user
	s.authenticated = true
}

func (s *Session) reset() {
	s.token = ""
	s.user = usersvc.User{}
	s.authenticated = false
	_ = s.store.ClearToken()
}
