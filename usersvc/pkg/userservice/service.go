package userservice

import (
	"context"
	"strings"

	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/go-kit/kit/log"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (usersvc.User, error)
	Authenticate(ctx context.Context, email, password string) (usersvc.User, error)
	User(ctx context.Context, id string) (usersvc.User, error)
}

func New(u usersvc.UserRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(u)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users usersvc.UserRepository
}

func NewBasicService(u usersvc.UserRepository) Service {
	return basicService{users: u}
}

func (s basicService) Register(ctx context.Context, name, email, password string) (usersvc.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return usersvc.User{}, err
	}

	return s.users.Create(ctx, usersvc.User{Name: name, Email: email, Password: string(hash)})
}

func (s basicService) Authenticate(ctx context.Context, email, password string) (usersvc.User, error) {
	if email == "" || password == "" {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return usersvc.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, nil
}

func (s basicService) User(ctx context.Context, id string) (usersvc.User, error) {
	if id == "" {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}
	return s.users.Find(ctx, id)
}
