package authservice

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

func (mw loggingMiddleware) Login(ctx context.Context, email, password string) (token string, u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Login", "email", email, "err", err)
	}()
	return mw.next.Login(ctx, email, password)
}

func (mw loggingMiddleware) Register(ctx context.Context, name, email, password string) (token string, u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Register", "email", email, "err", err)
	}()
	return mw.next.Register(ctx, name, email, password)
}

func (mw loggingMiddleware) Verify(ctx context.Context, accessUUID, userID string) (u usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Verify", "access_uuid", accessUUID, "user_id", userID, "err", err)
	}()
	return mw.next.Verify(ctx, accessUUID, userID)
}
