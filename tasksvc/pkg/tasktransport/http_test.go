package tasktransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"

	"github.com/Vaishnavi4104/TodoFlow/authsvc/inmem"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authendpoint"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authservice"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authtransport"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskendpoint"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskservice"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/tasktransport"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/Vaishnavi4104/TodoFlow/usersvc/pkg/userservice"
)

type taskRepository struct {
	tasks  map[string]tasksvc.Task
	nextID int
}

func (r *taskRepository) Create(_ context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	r.nextID++
	task.ID = "task-" + strconv.Itoa(r.nextID)
	r.tasks[task.ID] = task
	return task, nil
}

func (r *taskRepository) FindAll(_ context.Context, userID string) ([]tasksvc.Task, error) {
	var out []tasksvc.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *taskRepository) Find(_ context.Context, userID, taskID string) (tasksvc.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return t, nil
}

func (r *taskRepository) Update(_ context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	prior, ok := r.tasks[task.ID]
	if !ok || prior.UserID != task.UserID {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *taskRepository) Delete(_ context.Context, userID, taskID string) error {
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return tasksvc.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type userRepository struct {
	users  map[string]usersvc.User
	nextID int
}

func (r *userRepository) Create(_ context.Context, user usersvc.User) (usersvc.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return usersvc.User{}, usersvc.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[user.ID] = user
	return user, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (usersvc.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return usersvc.User{}, usersvc.ErrUserNotFound
}

func (r *userRepository) Find(_ context.Context, id string) (usersvc.User, error) {
	u, ok := r.users[id]
	if !ok {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}
	return u, nil
}

// newServer mounts the auth and task transports the way the server binary
// does, on in-memory storage.
func newServer() *httptest.Server {
	logger := log.NewNopLogger()
	client := inmem.NewMapClient()

	userSvc := userservice.NewBasicService(&userRepository{users: make(map[string]usersvc.User)})
	authSvc := authservice.NewBasicService(authservice.NewTokenizer(), client, userSvc)

	var taskSvc taskservice.Service
	{
		taskSvc = taskservice.NewBasicService(&taskRepository{tasks: make(map[string]tasksvc.Task)})
		taskSvc = taskservice.AuthorizingMiddleware(client, userSvc)(taskSvc)
	}

	r := mux.NewRouter()
	r.PathPrefix("/api/auth").Handler(http.StripPrefix(
		"/api/auth", authtransport.NewHTTPHandler(authendpoint.New(authSvc, logger), logger)))
	r.PathPrefix("/api/tasks").Handler(http.StripPrefix(
		"/api", tasktransport.NewHTTPHandler(taskendpoint.New(taskSvc, logger), logger)))

	return httptest.NewServer(r)
}

func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	body := `{"name":"Jane","email":"` + email + `","password":"hunter2"}`
	resp, err := http.Post(ts.URL+"/api/auth/register", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", resp.StatusCode)
	}

	var session struct {
		Token string       `json:"token"`
		User  usersvc.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("register: expected a token")
	}
	if session.User.ID == "" {
		t.Fatal("register: expected the created user")
	}

	return session.Token
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestTaskLifecycle(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	token := register(t, ts, "jane@example.com")

	// Create.
	resp := do(t, "POST", ts.URL+"/api/tasks", token,
		`{"title":"buy milk","dueDate":"2024-06-01","priority":"High","subtasks":[{"title":"find store"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", resp.StatusCode)
	}

	var created tasksvc.Task
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == "" {
		t.Fatal("create: expected an id")
	}
	if created.DueDate == nil {
		t.Fatal("create: expected the due date to survive")
	}
	if len(created.Subtasks) != 1 || created.Subtasks[0].ID == "" {
		t.Fatal("create: expected an id-bearing subtask")
	}

	// The list route returns a bare array.
	resp = do(t, "GET", ts.URL+"/api/tasks", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var list []tasksvc.Task
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list: expected the created task, got %+v", list)
	}

	// Completing through the full-replace update stamps completedAt.
	resp = do(t, "PUT", ts.URL+"/api/tasks/"+created.ID, token,
		`{"title":"buy milk","completed":true,"priority":"High"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	var updated tasksvc.Task
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if !updated.Completed || updated.CompletedAt == nil {
		t.Fatalf("update: expected a completion stamp, got %+v", updated)
	}

	// Delete acknowledges with the id.
	resp = do(t, "DELETE", ts.URL+"/api/tasks/"+created.ID, token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	var ack map[string]string
	json.NewDecoder(resp.Body).Decode(&ack)
	resp.Body.Close()
	if ack["deleted"] != created.ID {
		t.Fatalf("delete: expected ack for %s, got %v", created.ID, ack)
	}

	resp = do(t, "GET", ts.URL+"/api/tasks/"+created.ID, token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	token := register(t, ts, "jane@example.com")

	resp := do(t, "GET", ts.URL+"/api/tasks", token, "")
	defer resp.Body.Close()

	var raw json.RawMessage
	json.NewDecoder(resp.Body).Decode(&raw)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected a bare empty array, got %s", raw)
	}
}

func TestUnauthenticated(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	resp := do(t, "GET", ts.URL+"/api/tasks", "", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var wrapper struct {
		Message string `json:"message"`
	}
	json.NewDecoder(resp.Body).Decode(&wrapper)
	if wrapper.Message == "" {
		t.Fatal("expected a {message} error body")
	}
}

func TestGarbageToken(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	resp := do(t, "GET", ts.URL+"/api/tasks", "not-a-jwt", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreateValidation(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	token := register(t, ts, "jane@example.com")

	for name, body := range map[string]string{
		"missing title": `{"description":"x"}`,
		"bad priority":  `{"title":"x","priority":"Urgent"}`,
		"bad due date":  `{"title":"x","dueDate":"someday"}`,
	} {
		resp := do(t, "POST", ts.URL+"/api/tasks", token, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestTasksAreScopedToOwner(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	janeToken := register(t, ts, "jane@example.com")
	johnToken := register(t, ts, "john@example.com")

	resp := do(t, "POST", ts.URL+"/api/tasks", janeToken, `{"title":"janes task"}`)
	var created tasksvc.Task
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp = do(t, "GET", ts.URL+"/api/tasks", johnToken, "")
	var list []tasksvc.Task
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 0 {
		t.Fatalf("expected an empty list for the other user, got %+v", list)
	}

	resp = do(t, "PUT", ts.URL+"/api/tasks/"+created.ID, johnToken, `{"title":"stolen"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for the other user's update, got %d", resp.StatusCode)
	}
}

func TestHTTPClientRoundTrip(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	token := register(t, ts, "jane@example.com")
	ctx := context.WithValue(context.Background(), kitjwt.JWTTokenContextKey, token)

	endpoints, err := tasktransport.NewHTTPClient(ts.URL, log.NewNopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := endpoints.CreateTask(ctx, tasksvc.Auth{}, tasksvc.Task{Title: "buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id")
	}

	list, err := endpoints.Tasks(ctx, tasksvc.Auth{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created task, got %+v", list)
	}

	ok, err := endpoints.DeleteTask(ctx, tasksvc.Auth{}, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a positive ack")
	}
}
