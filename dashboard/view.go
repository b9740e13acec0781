package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

type SortOrder string

const (
	SortNone     SortOrder = ""
	SortDueDate  SortOrder = "dueDate"
	SortPriority SortOrder = "priority"
)

// View derives a filtered and sorted slice without touching the input.
// Sorting is stable, so same-key tasks keep their list order, and tasks
// without a due date or priority sink to the bottom.
func View(tasks []tasksvc.Task, filter Filter, order SortOrder) []tasksvc.Task {
	out := make([]tasksvc.Task, 0, len(tasks))
	for _, t := range tasks {
		switch filter {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterPending:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	switch order {
	case SortDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return tasksvc.PriorityRank(out[i].Priority) < tasksvc.PriorityRank(out[j].Priority)
		})
	}

	return out
}

// Draft is a scratch copy of a task being edited. Nothing reaches the
// server until Save; dropping the draft cancels the edit.
type Draft struct {
	TaskID      string
	Title       string
	Description string
	Completed   bool
	DueDate     string
	Priority    string
	Subtasks    tasksvc.Subtasks
}

// NewDraft seeds a draft from the task's current state. The due date is
// cut down to a bare date, which is all the edit form works in.
func NewDraft(task tasksvc.Task) Draft {
	d := Draft{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		Subtasks:    make(tasksvc.Subtasks, len(task.Subtasks)),
	}
	copy(d.Subtasks, task.Subtasks)

	if task.DueDate != nil {
		d.DueDate = task.DueDate.Format("2006-01-02")
	}

	return d
}

// Task materializes the draft as a fresh task, for creation.
func (d Draft) Task() (tasksvc.Task, error) {
	due, err := parseDraftDate(d.DueDate)
	if err != nil {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	return tasksvc.Task{
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		DueDate:     due,
		Priority:    d.Priority,
		Subtasks:    d.Subtasks,
	}, nil
}

// Save submits the draft as a full replacement of the task.
func (d Draft) Save(ctx context.Context, b *Board) (tasksvc.Task, error) {
	task, err := b.Task(d.TaskID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	due, err := parseDraftDate(d.DueDate)
	if err != nil {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	task.Title = d.Title
	task.Description = d.Description
	task.Completed = d.Completed
	task.DueDate = due
	task.Priority = d.Priority
	task.Subtasks = d.Subtasks

	return b.Update(ctx, task)
}

func parseDraftDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
