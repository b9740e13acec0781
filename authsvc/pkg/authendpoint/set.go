package authendpoint

import (
	"context"

	"github.com/Vaishnavi4104/TodoFlow/authsvc"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authservice"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
)

type Set struct {
	LoginEndpoint    endpoint.Endpoint
	RegisterEndpoint endpoint.Endpoint
	VerifyEndpoint   endpoint.Endpoint
}

func New(svc authservice.Service, logger log.Logger) Set {
	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = MakeLoginEndpoint(svc)
		loginEndpoint = LoggingMiddleware(log.With(logger, "method", "Login"))(loginEndpoint)
	}

	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = MakeRegisterEndpoint(svc)
		registerEndpoint = LoggingMiddleware(log.With(logger, "method", "Register"))(registerEndpoint)
	}

	var verifyEndpoint endpoint.Endpoint
	{
		verifyEndpoint = MakeVerifyEndpoint(svc)
		verifyEndpoint = LoggingMiddleware(log.With(logger, "method", "Verify"))(verifyEndpoint)
	}

	return Set{
		LoginEndpoint:    loginEndpoint,
		RegisterEndpoint: registerEndpoint,
		VerifyEndpoint:   verifyEndpoint,
	}
}

func (s Set) Login(ctx context.Context, email, password string) (string, usersvc.User, error) {
	response, err := s.LoginEndpoint(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", usersvc.User{}, err
	}

	resp := response.(SessionResponse)
	return resp.Token, resp.User, resp.Err
}

func (s Set) Register(ctx context.Context, name, email, password string) (string, usersvc.User, error) {
	response, err := s.RegisterEndpoint(ctx, RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", usersvc.User{}, err
	}

	resp := response.(SessionResponse)
	return resp.Token, resp.User, resp.Err
}

func (s Set) Verify(ctx context.Context, accessUUID, userID string) (usersvc.User, error) {
	response, err := s.VerifyEndpoint(ctx, VerifyRequest{})
	if err != nil {
		return usersvc.User{}, err
	}

	resp := response.(VerifyResponse)
	return resp.User, resp.Err
}

func MakeLoginEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(LoginRequest)
		token, user, err := s.Login(ctx, req.Email, req.Password)

		return SessionResponse{Token: token, User: user, Err: err}, nil
	}
}

func MakeRegisterEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(RegisterRequest)
		token, user, err := s.Register(ctx, req.Name, req.Email, req.Password)

		return SessionResponse{Token: token, User: user, Err: err}, nil
	}
}

// MakeVerifyEndpoint reads the token UUID and owner id out of the JWT
// claims the transport parsed into the context.
func MakeVerifyEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(stdjwt.MapClaims)
		if !ok {
			return VerifyResponse{Err: authsvc.ErrClaimsMissing}, nil
		}

		uuid, ok := claims["uuid"].(string)
		if !ok {
			return VerifyResponse{Err: authsvc.ErrUUIDMissing}, nil
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			return VerifyResponse{Err: authsvc.ErrClaimsInvalid}, nil
		}

		_ = request.(VerifyRequest)
		user, err := s.Verify(ctx, uuid, userID)

		return VerifyResponse{User: user, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = SessionResponse{}
	_ endpoint.Failer = VerifyResponse{}
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the {token, user} pair both login and register hand
// back to the client.
type SessionResponse struct {
	Token string       `json:"token"`
	User  usersvc.User `json:"user"`
	Err   error        `json:"-"`
}

func (r SessionResponse) Failed() error { return r.Err }

type VerifyRequest struct{}

type VerifyResponse struct {
	User usersvc.User `json:"user"`
	Err  error        `json:"-"`
}

func (r VerifyResponse) Failed() error { return r.Err }
