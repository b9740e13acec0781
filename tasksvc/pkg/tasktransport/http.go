package tasktransport

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
	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskendpoint"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
)

func NewHTTPHandler(endpoints taskendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	kf := func(token *stdjwt.Token) (interface{}, error) {
		return []byte(authsvc.AccessSecret), nil
	}
	parser := kitjwt.NewParser(kf, stdjwt.SigningMethodHS256, kitjwt.MapClaimsFactory)

	createTaskHandler := httptransport.NewServer(
		parser(endpoints.CreateTaskEndpoint),
		decodeHTTPCreateTaskRequest,
		encodeHTTPCreateTaskResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	tasksHandler := httptransport.NewServer(
		parser(endpoints.TasksEndpoint),
		decodeHTTPTasksRequest,
		encodeHTTPTasksResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	taskHandler := httptransport.NewServer(
		parser(endpoints.TaskEndpoint),
		decodeHTTPTaskRequest,
		encodeHTTPTaskResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	updateTaskHandler := httptransport.NewServer(
		parser(endpoints.UpdateTaskEndpoint),
		decodeHTTPUpdateTaskRequest,
		encodeHTTPUpdateTaskResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	deleteTaskHandler := httptransport.NewServer(
		parser(endpoints.DeleteTaskEndpoint),
		decodeHTTPDeleteTaskRequest,
		encodeHTTPDeleteTaskResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	r := mux.NewRouter()

	r.Methods("GET").Path("/tasks").Handler(tasksHandler)
	r.Methods("POST").Path("/tasks").Handler(createTaskHandler)
	r.Methods("GET").Path("/tasks/{task_id}").Handler(taskHandler)
	r.Methods("PUT").Path("/tasks/{task_id}").Handler(updateTaskHandler)
	r.Methods("DELETE").Path("/tasks/{task_id}").Handler(deleteTaskHandler)

	return r
}

// NewHTTPClient talks to the /api/tasks routes of a single server
// instance. The bearer token travels through the context via
// kitjwt.ContextToHTTP.
func NewHTTPClient(instance string, logger log.Logger) (taskendpoint.Set, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return taskendpoint.Set{}, err
	}

	options := []httptransport.ClientOption{
		httptransport.ClientBefore(kitjwt.ContextToHTTP()),
	}

	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = httptransport.NewClient(
			"POST",
			copyURL(u, "/api/tasks"),
			encodeHTTPGenericRequest,
			decodeHTTPCreateTaskResponse,
			options...,
		).Endpoint()
	}

	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = httptransport.NewClient(
			"GET",
			copyURL(u, "/api/tasks"),
			encodeHTTPGenericRequest,
			decodeHTTPTasksResponse,
			options...,
		).Endpoint()
	}

	var taskEndpoint endpoint.Endpoint
	{
		taskEndpoint = httptransport.NewClient(
			"GET",
			copyURL(u, "/api/tasks"),
			encodeHTTPTaskIDRequest,
			decodeHTTPTaskResponse,
			options...,
		).Endpoint()
	}

	var updateTaskEndpoint endpoint.Endpoint
	{
		updateTaskEndpoint = httptransport.NewClient(
			"PUT",
			copyURL(u, "/api/tasks"),
			encodeHTTPUpdateTaskClientRequest,
			decodeHTTPUpdateTaskResponse,
			options...,
		).Endpoint()
	}

	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = httptransport.NewClient(
			"DELETE",
			copyURL(u, "/api/tasks"),
			encodeHTTPDeleteTaskClientRequest,
			decodeHTTPDeleteTaskResponse,
			options...,
		).Endpoint()
	}

	return taskendpoint.Set{
		CreateTaskEndpoint: createTaskEndpoint,
		TasksEndpoint:      tasksEndpoint,
		TaskEndpoint:       taskEndpoint,
		UpdateTaskEndpoint: updateTaskEndpoint,
		DeleteTaskEndpoint: deleteTaskEndpoint,
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
	case tasksvc.ErrInvalidArgument:
		return http.StatusBadRequest
	case tasksvc.ErrTaskNotFound:
		return http.StatusNotFound
	case tasksvc.ErrClaimsMissing, usersvc.ErrUserNotFound, inmem.ErrKeyNotFound,
		authsvc.ErrUserIDContextMissing,
		kitjwt.ErrTokenContextMissing, kitjwt.ErrTokenExpired, kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenMalformed, kitjwt.ErrTokenNotActive, kitjwt.ErrUnexpectedSigningMethod:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

type errorWrapper struct {
	Message string `json:"message"`
}

// ErrBadRouting is returned when an expected path variable is missing.
// It always indicates programmer error.
var ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")

func decodeHTTPCreateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req taskendpoint.CreateTaskRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}
	return req, nil
}

func decodeHTTPTasksRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return taskendpoint.TasksRequest{}, nil
}

func decodeHTTPTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	return taskendpoint.TaskRequest{TaskID: taskID}, nil
}

func decodeHTTPUpdateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	var req taskendpoint.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}

	req.TaskID = taskID

	return req, nil
}

func decodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	return taskendpoint.DeleteTaskRequest{TaskID: taskID}, nil
}

// The response encoders write the bare REST shapes the original web
// client consumes: a task array from the list route, a single task from
// create/update/get, and a {deleted} ack from delete.

func encodeHTTPTasksResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(taskendpoint.TasksResponse)
	if resp.Failed() != nil {
		errorEncoder(ctx, resp.Failed(), w)
		return nil
	}

	tasks := resp.Tasks
	if tasks == nil {
		tasks = []tasksvc.Task{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(tasks)
}

func encodeHTTPCreateTaskResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(taskendpoint.CreateTaskResponse)
	return encodeTask(ctx, w, resp.Task, resp.Failed())
}

func encodeHTTPTaskResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(taskendpoint.TaskResponse)
	return encodeTask(ctx, w, resp.Task, resp.Failed())
}

func encodeHTTPUpdateTaskResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(taskendpoint.UpdateTaskResponse)
	return encodeTask(ctx, w, resp.Task, resp.Failed())
}

func encodeHTTPDeleteTaskResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(taskendpoint.DeleteTaskResponse)
	if resp.Failed() != nil {
		errorEncoder(ctx, resp.Failed(), w)
		return nil
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(map[string]string{"deleted": resp.TaskID})
}

func encodeTask(ctx context.Context, w http.ResponseWriter, task tasksvc.Task, err error) error {
	if err != nil {
		errorEncoder(ctx, err, w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(task)
}

func encodeHTTPGenericRequest(_ context.Context, r *http.Request, request interface{}) error {
	if r.Method == "GET" {
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return err
	}
	r.Body = ioutil.NopCloser(&buf)
	return nil
}

func encodeHTTPTaskIDRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.TaskRequest)
	r.URL.Path = r.URL.Path + "/" + req.TaskID
	return nil
}

func encodeHTTPUpdateTaskClientRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.UpdateTaskRequest)
	r.URL.Path = r.URL.Path + "/" + req.TaskID
	return encodeHTTPGenericRequest(ctx, r, request)
}

func encodeHTTPDeleteTaskClientRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.DeleteTaskRequest)
	r.URL.Path = r.URL.Path + "/" + req.TaskID
	return nil
}

func decodeHTTPCreateTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var task tasksvc.Task
	err := json.NewDecoder(r.Body).Decode(&task)
	return taskendpoint.CreateTaskResponse{Task: task}, err
}

func decodeHTTPTasksResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var tasks []tasksvc.Task
	err := json.NewDecoder(r.Body).Decode(&tasks)
	return taskendpoint.TasksResponse{Tasks: tasks}, err
}

func decodeHTTPTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var task tasksvc.Task
	err := json.NewDecoder(r.Body).Decode(&task)
	return taskendpoint.TaskResponse{Task: task}, err
}

func decodeHTTPUpdateTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var task tasksvc.Task
	err := json.NewDecoder(r.Body).Decode(&task)
	return taskendpoint.UpdateTaskResponse{Task: task}, err
}

func decodeHTTPDeleteTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, serverError(r)
	}
	var ack map[string]string
	err := json.NewDecoder(r.Body).Decode(&ack)
	return taskendpoint.DeleteTaskResponse{Result: true, TaskID: ack["deleted"]}, err
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
