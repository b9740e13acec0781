package gorm

import (
	"context"
	"errors"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/twinj/uuid"
	stdgorm "gorm.io/gorm"
)

type taskRepository struct {
	db *stdgorm.DB
}

func NewTaskRepository(db *stdgorm.DB) tasksvc.TaskRepository {
	return &taskRepository{db}
}

func (t *taskRepository) Create(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	task.ID = uuid.NewV4().String()
	result := t.db.WithContext(ctx).Create(&task)

	return task, result.Error
}

func (t *taskRepository) FindAll(ctx context.Context, userID string) ([]tasksvc.Task, error) {
	var tasks []tasksvc.Task
	result := t.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tasks)

	return tasks, result.Error
}

func (t *taskRepository) Find(ctx context.Context, userID, taskID string) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := t.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).First(&task)

	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, result.Error
}

// Update replaces the whole document, nil-able fields included, which is
// why the column map is spelled out instead of using Updates on a struct.
func (t *taskRepository) Update(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	tk, err := t.Find(ctx, task.UserID, task.ID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	result := t.db.WithContext(ctx).Model(&tk).Updates(
		map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"completed":    task.Completed,
			"due_date":     task.DueDate,
			"priority":     task.Priority,
			"completed_at": task.CompletedAt,
			"subtasks":     task.Subtasks,
			"user_id":      task.UserID,
		})
	if result.Error != nil {
		return tasksvc.Task{}, result.Error
	}

	return t.Find(ctx, task.UserID, task.ID)
}

func (t *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&tasksvc.Task{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tasksvc.ErrTaskNotFound
	}
	return nil
}
