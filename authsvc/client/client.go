package client

import (
	"time"

	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authendpoint"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authtransport"
	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// New builds the auth endpoint set against one server instance, decorated
// the same way as the task client: limiter plus breaker, no retry.
func New(instance string, logger log.Logger) (authendpoint.Set, error) {
	svc, err := authtransport.NewHTTPClient(instance, logger)
	if err != nil {
		return authendpoint.Set{}, err
	}

	endpoints := svc.(authendpoint.Set)
	endpoints.LoginEndpoint = decorate("Login", endpoints.LoginEndpoint)
	endpoints.RegisterEndpoint = decorate("Register", endpoints.RegisterEndpoint)
	endpoints.VerifyEndpoint = decorate("Verify", endpoints.VerifyEndpoint)

	return endpoints, nil
}

func decorate(name string, e endpoint.Endpoint) endpoint.Endpoint {
	e = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))(e)
	e = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
	}))(e)
	return e
}
