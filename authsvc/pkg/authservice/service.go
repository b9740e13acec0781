package authservice

import (
	"context"

	"github.com/Vaishnavi4104/TodoFlow/authsvc"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/inmem"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/Vaishnavi4104/TodoFlow/usersvc/pkg/userservice"
	"github.com/go-kit/kit/log"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, usersvc.User, error)
	Register(ctx context.Context, name, email, password string) (string, usersvc.User, error)
	Verify(ctx context.Context, accessUUID, userID string) (usersvc.User, error)
}

func New(t Tokenizer, c inmem.Client, u userservice.Service, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t, c, u)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tokenizer Tokenizer
	client    inmem.Client
	users     userservice.Service
}

func NewBasicService(t Tokenizer, c inmem.Client, u userservice.Service) Service {
	return &basicService{tokenizer: t, client: c, users: u}
}

func (s *basicService) Login(ctx context.Context, email, password string) (string, usersvc.User, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			err = authsvc.ErrInvalidCredentials
		}
		return "", usersvc.User{}, err
	}

	return s.issue(user)
}

func (s *basicService) Register(ctx context.Context, name, email, password string) (string, usersvc.User, error) {
	user, err := s.users.Register(ctx, name, email, password)
	if err != nil {
		return "", usersvc.User{}, err
	}

	return s.issue(user)
}

// Verify confirms the token UUID is still live and resolves its owner. A
// revoked or unknown UUID reports inmem.ErrKeyNotFound.
func (s *basicService) Verify(ctx context.Context, accessUUID, userID string) (usersvc.User, error) {
	if accessUUID == "" || userID == "" {
		return usersvc.User{}, authsvc.ErrInvalidArgument
	}

	if err := s.client.Get(accessUUID); err != nil {
		return usersvc.User{}, err
	}

	return s.users.User(ctx, userID)
}

func (s *basicService) issue(user usersvc.User) (string, usersvc.User, error) {
	at, err := s.tokenizer.Generate(user.ID)
	if err != nil {
		return "", usersvc.User{}, err
	}

	if err := s.client.Put(at.UUID, []byte(user.ID)); err != nil {
		return "", usersvc.User{}, err
	}

	return at.Hash, user, nil
}
