package taskservice

import (
	"context"
	"strings"
	"time"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/go-kit/kit/log"
	"github.com/twinj/uuid"
)

type Service interface {
	CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error)
	Tasks(ctx context.Context, a tasksvc.Auth) ([]tasksvc.Task, error)
	Task(ctx context.Context, a tasksvc.Auth, taskID string) (tasksvc.Task, error)
	UpdateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error)
	DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (bool, error)
}

func New(t tasksvc.TaskRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks tasksvc.TaskRepository
}

func NewBasicService(t tasksvc.TaskRepository) Service {
	return basicService{tasks: t}
}

var now = time.Now

func (s basicService) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" || a.UserID == "" || !tasksvc.ValidPriority(task.Priority) {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if err := fillSubtasks(&task); err != nil {
		return tasksvc.Task{}, err
	}

	task.ID = ""
	task.UserID = a.UserID
	task.CompletedAt = nil
	if task.Completed {
		t := now()
		task.CompletedAt = &t
	}

	return s.tasks.Create(ctx, task)
}

func (s basicService) Tasks(ctx context.Context, a tasksvc.Auth) ([]tasksvc.Task, error) {
	if a.UserID == "" {
		return nil, tasksvc.ErrInvalidArgument
	}
	return s.tasks.FindAll(ctx, a.UserID)
}

func (s basicService) Task(ctx context.Context, a tasksvc.Auth, taskID string) (tasksvc.Task, error) {
	if a.UserID == "" || taskID == "" {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	return s.tasks.Find(ctx, a.UserID, taskID)
}

// UpdateTask is a full-document replace: every toggle resubmits the whole
// task. completedAt is stamped on the pending-to-completed transition and
// cleared on the way back; an already-completed task keeps its stamp.
func (s basicService) UpdateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if a.UserID == "" || task.ID == "" || task.Title == "" || !tasksvc.ValidPriority(task.Priority) {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if err := fillSubtasks(&task); err != nil {
		return tasksvc.Task{}, err
	}

	prior, err := s.tasks.Find(ctx, a.UserID, task.ID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	task.UserID = a.UserID
	switch {
	case task.Completed && !prior.Completed:
		t := now()
		task.CompletedAt = &t
	case task.Completed:
		task.CompletedAt = prior.CompletedAt
	default:
		task.CompletedAt = nil
	}

	return s.tasks.Update(ctx, task)
}

func (s basicService) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (bool, error) {
	if a.UserID == "" || taskID == "" {
		return false, tasksvc.ErrInvalidArgument
	}

	if err := s.tasks.Delete(ctx, a.UserID, taskID); err != nil {
		return false, err
	}
	return true, nil
}

// fillSubtasks rejects untitled subtasks and assigns ids to new ones, the
// way the original document mapper did for embedded documents.
func fillSubtasks(task *tasksvc.Task) error {
	for i := range task.Subtasks {
		task.Subtasks[i].Title = strings.TrimSpace(task.Subtasks[i].Title)
		if task.Subtasks[i].Title == "" {
			return tasksvc.ErrInvalidArgument
		}
		if task.Subtasks[i].ID == "" {
			task.Subtasks[i].ID = uuid.NewV4().String()
		}
	}
	return nil
}
