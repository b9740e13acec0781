package authtransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/Vaishnavi4104/TodoFlow/authsvc"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/inmem"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authendpoint"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authservice"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
)

func NewHTTPHandler(endpoints authendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	registerHandler := httptransport.NewServer(
		endpoints.RegisterEndpoint,
		decodeHTTPRegisterRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	loginHandler := httptransport.NewServer(
		endpoints.LoginEndpoint,
		decodeHTTPLoginRequest,
		encodeHTTPGenericResponse,
		options...,
	)

	var verifyEndpoint endpoint.Endpoint
	{
		kf := func(token *stdjwt.Token) (interface{}, error) {
			return []byte(authsvc.AccessSecret), nil
		}

		verifyEndpoint = endpoints.VerifyEndpoint
		verifyEndpoint = kitjwt.NewParser(
			kf,
			stdjwt.SigningMethodHS256,
			kitjwt.MapClaimsFactory,
		)(verifyEndpoint)
	}

	verifyHandler := httptransport.NewServer(
		verifyEndpoint,
		decodeHTTPVerifyRequest,
		encodeHTTPVerifyResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/register").Handler(registerHandler)
	r.Methods("POST").Path("/login").Handler(loginHandler)
	r.Methods("GET").Path("/verify").Handler(verifyHandler)

	return r
}

// NewHTTPClient talks to the /api/auth routes of a single server instance.
func NewHTTPClient(instance string, logger log.Logger) (authservice.Service, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return nil, err
	}

	var options []httptransport.ClientOption

	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = httptransport.NewClient(
			"POST",
			copyURL(u, "/api/auth/login"),
			encodeHTTPGenericRequest,
			decodeHTTPSessionResponse,
			options...,
		).Endpoint()
	}

	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = httptransport.NewClient(
			"POST",
			copyURL(u, "/api/auth/register"),
			encodeHTTPGenericRequest,
			decodeHTTPSessionResponse,
			options...,
		).Endpoint()
	}

	var verifyEndpoint endpoint.Endpoint
	{
		verifyEndpoint = httptransport.NewClient(
			"GET",
			copyURL(u, "/api/auth/verify"),
			encodeHTTPGenericRequest,
			decodeHTTPVerifyResponse,
			append(options, httptransport.ClientBefore(kitjwt.ContextToHTTP()))...,
		).Endpoint()
	}

	return authendpoint.Set{
		LoginEndpoint:    loginEndpoint,
		RegisterEndpoint: registerEndpoint,
		VerifyEndpoint:   verifyEndpoint,
	}, nil
}

func copyURL(base *url.URL, path string) *url.URL {
	next := *base
	next.Path = path
	return &next
}

func errorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err2code(err))
	json.NewEncoder(w).Encode(errorWrapper{Message: err.Error()})
}

func err2code(err error) int {
	switch err {
	case usersvc.ErrInvalidArgument, authsvc.ErrInvalidArgument:
		return http.StatusBadRequest
	case usersvc.ErrEmailTaken:
		return http.StatusConflict
	case authsvc.ErrInvalidCredentials, usersvc.ErrUserNotFound,
		authsvc.ErrClaimsMissing, authsvc.ErrClaimsInvalid, authsvc.ErrUUIDMissing,
		inmem.ErrKeyNotFound,
		kitjwt.ErrTokenContextMissing, kitjwt.ErrTokenExpired, kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenMalformed, kitjwt.ErrTokenNotActive, kitjwt.ErrUnexpectedSigningMethod:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// errorWrapper matches the {message} error body the original web client
// surfaces to the user.
type errorWrapper struct {
	Message string `json:"message"`
}

func decodeHTTPRegisterRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.RegisterRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func decodeHTTPLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.LoginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func decodeHTTPVerifyRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return authendpoint.VerifyRequest{}, nil
}

func decodeHTTPSessionResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var resp authendpoint.SessionResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	return resp, err
}

func decodeHTTPVerifyResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var user usersvc.User
	err := json.NewDecoder(r.Body).Decode(&user)
	return authendpoint.VerifyResponse{User: user}, err
}

// serverError prefers the server's {message} body over the bare status
// line so callers can show it verbatim.
func serverError(r *http.Response) error {
	var wrapper errorWrapper
	if err := json.NewDecoder(r.Body).Decode(&wrapper); err == nil && wrapper.Message != "" {
		return errors.New(wrapper.Message)
	}
	return errors.New(r.Status)
}

func encodeHTTPGenericRequest(_ context.Context, r *http.Request, request interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return err
	}
	r.Body = ioutil.NopCloser(&buf)
	return nil
}

func encodeHTTPGenericResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// encodeHTTPVerifyResponse writes the bare user object the original
// client expects from GET /api/auth/verify.
func encodeHTTPVerifyResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	resp := response.(authendpoint.VerifyResponse)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(resp.User)
}
