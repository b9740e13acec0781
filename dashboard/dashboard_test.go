package dashboard

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/go-kit/kit/log"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
)

type memStore struct {
	token string
	theme string
}

func (s *memStore) Token() string               { return s.token }
func (s *memStore) SetToken(token string) error { s.token = token; return nil }
func (s *memStore) ClearToken() error           { s.token = ""; return nil }
func (s *memStore) SetTheme(theme string) error { s.theme = theme; return nil }

func (s *memStore) Theme() string {
	if s.theme == "" {
		return ThemeLight
	}
	return s.theme
}

type fakeAuth struct {
	token     string
	user      usersvc.User
	loginErr  error
	verifyErr error
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, usersvc.User, error) {
	if f.loginErr != nil {
		return "", usersvc.User{}, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) (string, usersvc.User, error) {
	return f.token, f.user, nil
}

func (f *fakeAuth) Verify(_ context.Context, _, _ string) (usersvc.User, error) {
	if f.verifyErr != nil {
		return usersvc.User{}, f.verifyErr
	}
	return f.user, nil
}

type fakeTasks struct {
	tasks      map[string]tasksvc.Task
	nextID     int
	lastUpdate tasksvc.Task
	listErr    error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: make(map[string]tasksvc.Task)}
}

func (f *fakeTasks) CreateTask(_ context.Context, _ tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	f.nextID++
	task.ID = "task-" + strconv.Itoa(f.nextID)
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTasks) Tasks(_ context.Context, _ tasksvc.Auth) ([]tasksvc.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []tasksvc.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTasks) Task(_ context.Context, _ tasksvc.Auth, taskID string) (tasksvc.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, _ tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	if _, ok := f.tasks[task.ID]; !ok {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	f.tasks[task.ID] = task
	f.lastUpdate = task
	return task, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, _ tasksvc.Auth, taskID string) (bool, error) {
	if _, ok := f.tasks[taskID]; !ok {
		return false, tasksvc.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return true, nil
}

func signedIn(t *testing.T, tasks *fakeTasks) (*Session, *Board, *memStore) {
	t.Helper()

	store := &memStore{}
	auth := &fakeAuth{token: "token-1", user: usersvc.User{ID: "user-1", Email: "jane@example.com"}}
	session := NewSession(context.Background(), auth, store, log.NewNopLogger())
	if err := session.Login(context.Background(), "jane@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return session, NewBoard(tasks, session, log.NewNopLogger()), store
}

func TestSessionLoginPersistsToken(t *testing.T) {
	_, _, store := signedIn(t, newFakeTasks())

	if store.token != "token-1" {
		t.Errorf("expected the token to be stored, got %q", store.token)
	}
}

func TestSessionResume(t *testing.T) {
	store := &memStore{token: "stored-token"}
	auth := &fakeAuth{user: usersvc.User{ID: "user-1"}}

	session := NewSession(context.Background(), auth, store, log.NewNopLogger())
	if !session.IsAuthenticated() {
		t.Fatal("expected the stored token to restore the session")
	}
	if session.User().ID != "user-1" {
		t.Errorf("expected the verified user, got %+v", session.User())
	}
}

func TestSessionResume_VerifyFailureResets(t *testing.T) {
	store := &memStore{token: "stale-token"}
	auth := &fakeAuth{verifyErr: errors.New("token expired")}

	session := NewSession(context.Background(), auth, store, log.NewNopLogger())
	if session.IsAuthenticated() {
		t.Fatal("expected a signed-out session")
	}
	if session.Token() != "" {
		t.Error("expected the stale token to be dropped")
	}
	if store.token != "" {
		t.Error("expected the stored token to be cleared")
	}
}

func TestSessionLogout(t *testing.T) {
	session, _, store := signedIn(t, newFakeTasks())

	session.Logout()
	if session.IsAuthenticated() {
		t.Error("expected a signed-out session")
	}
	if store.token != "" {
		t.Error("expected the stored token to be cleared")
	}
}

func TestSessionLoginFailureKeepsState(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{loginErr: errors.New("invalid email or password")}
	session := NewSession(context.Background(), auth, store, log.NewNopLogger())

	if err := session.Login(context.Background(), "jane@example.com", "wrong"); err == nil {
		t.Fatal("expected an error")
	}
	if session.IsAuthenticated() || store.token != "" {
		t.Error("expected no session state after a failed login")
	}
}

func TestBoardRefreshFailureEmptiesList(t *testing.T) {
	tasks := newFakeTasks()
	_, board, _ := signedIn(t, tasks)

	board.Create(context.Background(), tasksvc.Task{Title: "x"})

	tasks.listErr = errors.New("boom")
	if err := board.Refresh(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if len(board.Tasks()) != 0 {
		t.Error("expected an empty list after a failed fetch")
	}
}

func TestBoardCreateAppendsServerCopy(t *testing.T) {
	_, board, _ := signedIn(t, newFakeTasks())

	created, err := board.Create(context.Background(), tasksvc.Task{Title: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected the server-assigned id")
	}

	list := board.Tasks()
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created task on the board, got %+v", list)
	}
}

func TestBoardDeleteRemovesTask(t *testing.T) {
	_, board, _ := signedIn(t, newFakeTasks())

	created, _ := board.Create(context.Background(), tasksvc.Task{Title: "x"})
	if err := board.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Tasks()) != 0 {
		t.Error("expected an empty board")
	}
}

func TestBoardToggleSubtaskResubmitsParent(t *testing.T) {
	tasks := newFakeTasks()
	_, board, _ := signedIn(t, tasks)

	created, _ := board.Create(context.Background(), tasksvc.Task{
		Title: "x",
		Subtasks: tasksvc.Subtasks{
			{ID: "s1", Title: "a"},
			{ID: "s2", Title: "b"},
		},
	})

	updated, err := board.ToggleSubtask(context.Background(), created.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Subtasks[1].Completed || updated.Subtasks[0].Completed {
		t.Errorf("expected only the second subtask flipped, got %+v", updated.Subtasks)
	}

	// The whole parent task went over the wire, not just the subtask.
	if tasks.lastUpdate.ID != created.ID || tasks.lastUpdate.Title != "x" {
		t.Errorf("expected a full-task update, got %+v", tasks.lastUpdate)
	}
	if len(tasks.lastUpdate.Subtasks) != 2 {
		t.Errorf("expected both subtasks in the update, got %+v", tasks.lastUpdate.Subtasks)
	}
}

func TestBoardToggleSubtaskOutOfRange(t *testing.T) {
	_, board, _ := signedIn(t, newFakeTasks())
	created, _ := board.Create(context.Background(), tasksvc.Task{Title: "x"})

	if _, err := board.ToggleSubtask(context.Background(), created.ID, 0); err != tasksvc.ErrInvalidArgument {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBoardRequiresSession(t *testing.T) {
	store := &memStore{}
	session := NewSession(context.Background(), &fakeAuth{}, store, log.NewNopLogger())
	board := NewBoard(newFakeTasks(), session, log.NewNopLogger())

	if err := board.Refresh(context.Background()); err != ErrNotSignedIn {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
	if _, err := board.Create(context.Background(), tasksvc.Task{Title: "x"}); err != ErrNotSignedIn {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestViewFilter(t *testing.T) {
	tasks := []tasksvc.Task{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c", Completed: true},
	}

	if got := View(tasks, FilterCompleted, SortNone); len(got) != 2 {
		t.Errorf("expected 2 completed tasks, got %+v", got)
	}
	if got := View(tasks, FilterPending, SortNone); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected the pending task, got %+v", got)
	}
	if got := View(tasks, FilterAll, SortNone); len(got) != 3 {
		t.Errorf("expected all tasks, got %+v", got)
	}
}

func TestViewSortByDueDate(t *testing.T) {
	tasks := []tasksvc.Task{
		{ID: "undated"},
		{ID: "later", DueDate: date("2024-06-10")},
		{ID: "sooner", DueDate: date("2024-06-01")},
	}

	got := View(tasks, FilterAll, SortDueDate)
	if got[0].ID != "sooner" || got[1].ID != "later" || got[2].ID != "undated" {
		t.Errorf("expected sooner, later, undated; got %+v", got)
	}
}

func TestViewSortByPriority(t *testing.T) {
	tasks := []tasksvc.Task{
		{ID: "none"},
		{ID: "low", Priority: tasksvc.PriorityLow},
		{ID: "high", Priority: tasksvc.PriorityHigh},
		{ID: "medium", Priority: tasksvc.PriorityMedium},
	}

	got := View(tasks, FilterAll, SortPriority)
	order := []string{"high", "medium", "low", "none"}
	for i, id := range order {
		if got[i].ID != id {
			t.Fatalf("expected order %v, got %+v", order, got)
		}
	}
}

func TestViewLeavesInputAlone(t *testing.T) {
	tasks := []tasksvc.Task{
		{ID: "b", Priority: tasksvc.PriorityLow},
		{ID: "a", Priority: tasksvc.PriorityHigh},
	}

	View(tasks, FilterAll, SortPriority)
	if tasks[0].ID != "b" {
		t.Error("expected the input slice untouched")
	}
}

func TestDraftTruncatesDueDate(t *testing.T) {
	due := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	draft := NewDraft(tasksvc.Task{ID: "t1", Title: "x", DueDate: &due})

	if draft.DueDate != "2024-06-01" {
		t.Errorf("expected a bare date, got %q", draft.DueDate)
	}
}

func TestDraftSave(t *testing.T) {
	_, board, _ := signedIn(t, newFakeTasks())
	created, _ := board.Create(context.Background(), tasksvc.Task{Title: "x", Priority: tasksvc.PriorityLow})

	draft := NewDraft(created)
	draft.Title = "renamed"
	draft.DueDate = "2024-06-01"
	draft.Priority = tasksvc.PriorityHigh

	updated, err := draft.Save(context.Background(), board)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "renamed" || updated.Priority != tasksvc.PriorityHigh {
		t.Errorf("expected the draft applied, got %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(*date("2024-06-01")) {
		t.Errorf("expected the due date applied, got %v", updated.DueDate)
	}
}

func TestDraftSave_BadDate(t *testing.T) {
	_, board, _ := signedIn(t, newFakeTasks())
	created, _ := board.Create(context.Background(), tasksvc.Task{Title: "x"})

	draft := NewDraft(created)
	draft.DueDate = "someday"

	if _, err := draft.Save(context.Background(), board); err != tasksvc.ErrInvalidArgument {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
