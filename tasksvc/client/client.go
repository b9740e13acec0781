package client

import (
	"time"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskendpoint"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/tasktransport"
	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// New builds the task endpoint set against one server instance. Each
// endpoint carries a rate limiter and a circuit breaker; there is no
// retry, so a failed call stays failed.
func New(instance string, logger log.Logger) (taskendpoint.Set, error) {
	endpoints, err := tasktransport.NewHTTPClient(instance, logger)
	if err != nil {
		return taskendpoint.Set{}, err
	}

	endpoints.CreateTaskEndpoint = decorate("CreateTask", endpoints.CreateTaskEndpoint)
	endpoints.TasksEndpoint = decorate("Tasks", endpoints.TasksEndpoint)
	endpoints.TaskEndpoint = decorate("Task", endpoints.TaskEndpoint)
	endpoints.UpdateTaskEndpoint = decorate("UpdateTask", endpoints.UpdateTaskEndpoint)
	endpoints.DeleteTaskEndpoint = decorate("DeleteTask", endpoints.DeleteTaskEndpoint)

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
