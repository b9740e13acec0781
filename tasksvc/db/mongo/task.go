package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/twinj/uuid"
	"go.mongodb.org/mongo-driver/bson"
	libmongo "go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

type taskRepository struct {
	tasks *libmongo.Collection
}

func NewTaskRepository(db *libmongo.Database) tasksvc.TaskRepository {
	return &taskRepository{tasks: db.Collection("tasks")}
}

func (t *taskRepository) Create(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	task.ID = uuid.NewV4().String()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	if _, err := t.tasks.InsertOne(ctx, task); err != nil {
		return tasksvc.Task{}, err
	}

	return task, nil
}

func (t *taskRepository) FindAll(ctx context.Context, userID string) ([]tasksvc.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := t.tasks.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}

	var tasks []tasksvc.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (t *taskRepository) Find(ctx context.Context, userID, taskID string) (tasksvc.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var task tasksvc.Task
	err := t.tasks.FindOne(ctx, bson.M{"_id": taskID, "userId": userID}).Decode(&task)
	if errors.Is(err, libmongo.ErrNoDocuments) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, err
}

func (t *taskRepository) Update(ctx context.Context, task tasksvc.Task) (tasksvc.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	task.UpdatedAt = time.Now()

	res, err := t.tasks.UpdateOne(
		ctx,
		bson.M{"_id": task.ID, "userId": task.UserID},
		bson.M{"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"dueDate":     task.DueDate,
			"priority":    task.Priority,
			"completedAt": task.CompletedAt,
			"subtasks":    task.Subtasks,
			"updatedAt":   task.UpdatedAt,
		}},
	)
	if err != nil {
		return tasksvc.Task{}, err
	}
	if res.MatchedCount == 0 {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return t.Find(ctx, task.UserID, task.ID)
}

func (t *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := t.tasks.DeleteOne(ctx, bson.M{"_id": taskID, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return tasksvc.ErrTaskNotFound
	}
	return nil
}
