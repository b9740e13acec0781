package dashboard

import (
	"context"
	"errors"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskservice"
	"github.com/go-kit/kit/log"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNoSuchTask  = errors.New("task is not on the board")
)

// Board holds the signed-in user's task list. Every mutation goes to the
// server first; the local list is only patched with what the server
// confirmed, so the two never drift apart.
type Board struct {
	tasks   taskservice.Service
	session *Session
	logger  log.Logger

	list []tasksvc.Task
}

func NewBoard(tasks taskservice.Service, session *Session, logger log.Logger) *Board {
	return &Board{
		tasks:   tasks,
		session: session,
		logger:  logger,
	}
}

// Refresh replaces the list with the server's copy. On failure the list
// is emptied rather than left showing stale tasks.
func (b *Board) Refresh(ctx context.Context) error {
	if !b.session.IsAuthenticated() {
		b.list = nil
		return ErrNotSignedIn
	}

	list, err := b.tasks.Tasks(b.session.Context(ctx), tasksvc.Auth{})
	if err != nil {
		b.list = nil
		return err
	}

	b.list = list
	return nil
}

// Tasks returns a copy of the current list; callers can filter and sort
// it without disturbing the board.
func (b *Board) Tasks() []tasksvc.Task {
	out := make([]tasksvc.Task, len(b.list))
	copy(out, b.list)
	return out
}

func (b *Board) Task(taskID string) (tasksvc.Task, error) {
	for _, t := range b.list {
		if t.ID == taskID {
			return t, nil
		}
	}
	return tasksvc.Task{}, ErrNoSuchTask
}

func (b *Board) Create(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	if !b.session.IsAuthenticated() {
		return tasksvc.Task{}, ErrNotSignedIn
	}

	created, err := b.tasks.CreateTask(b.session.Context(ctx), tasksvc.Auth{}, task)
	if err != nil {
		return tasksvc.Task{}, err
	}

	b.list = append(b.list, created)
	return created, nil
}

func (b *Board) Update(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	if !b.session.IsAuthenticated() {
		return tasksvc.Task{}, ErrNotSignedIn
	}

	updated, err := b.tasks.UpdateTask(b.session.Context(ctx), tasksvc.Auth{}, task)
	if err != nil {
		return tasksvc.Task{}, err
	}

	for i := range b.list {
		if b.list[i].ID == updated.ID {
			b.list[i] = updated
			break
		}
	}
	return updated, nil
}

func (b *Board) Delete(ctx context.Context, taskID string) error {
	if !b.session.IsAuthenticated() {
		return ErrNotSignedIn
	}

	if _, err := b.tasks.DeleteTask(b.session.Context(ctx), tasksvc.Auth{}, taskID); err != nil {
		return err
	}

	for i := range b.list {
		if b.list[i].ID == taskID {
			b.list = append(b.list[:i], b.list[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleSubtask flips one subtask by position and resubmits the whole
// parent task, since subtasks have no endpoint of their own.
func (b *Board) ToggleSubtask(ctx context.Context, taskID string, index int) (tasksvc.Task, error) {
	task, err := b.Task(taskID)
	if err != nil {
		return tasksvc.Task{}, err
	}
	if index < 0 || index >= len(task.Subtasks) {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	subtasks := make(tasksvc.Subtasks, len(task.Subtasks))
	copy(subtasks, task.Subtasks)
	subtasks[index].Completed = !subtasks[index].Completed
	task.Subtasks = subtasks

	return b.Update(ctx, task)
}
