package tasksvc

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

type Task struct {
	ID          string     `json:"id" gorm:"primaryKey" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Completed   bool       `json:"completed" bson:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Priority    string     `json:"priority,omitempty" bson:"priority,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Subtasks    Subtasks   `json:"subtasks" gorm:"type:text" bson:"subtasks"`
	UserID      string     `json:"userId" bson:"userId"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type Subtask struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Completed bool   `json:"completed" bson:"completed"`
}

// Subtasks is persisted as a single JSON column under gorm and as an
// embedded document array under mongo.
type Subtasks []Subtask

func (s Subtasks) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *Subtasks) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	}
	return fmt.Errorf("unsupported subtasks column type %T", value)
}

// ValidPriority reports whether p is one of the known priorities or unset.
func ValidPriority(p string) bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// PriorityRank orders High before Medium before Low, with unset (or
// unknown) last.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	FindAll(ctx context.Context, userID string) ([]Task, error)
	Find(ctx context.Context, userID, taskID string) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

type Auth struct {
	AccessUUID string
	UserID     string
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskNotFound    = errors.New("task not found")
	ErrClaimsMissing   = errors.New("JWT claims was not passed through the context")
)
