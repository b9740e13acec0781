package userservice

import (
	"context"

	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/go-kit/kit/log"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) Register(ctx context.Context, name, email, password string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Register", "email", email, "id", u.ID, "err", err)
	}()
	return mw.next.Register(ctx, name, email, password)
}

func (mw loggingMiddleware) Authenticate(ctx context.Context, email, password string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Authenticate", "email", email, "id", u.ID, "err", err)
	}()
	return mw.next.Authenticate(ctx, email, password)
}

func (mw loggingMiddleware) User(ctx context.Context, id string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "User", "id", id, "err", err)
	}()
	return mw.next.User(ctx, id)
}
