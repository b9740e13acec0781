package taskservice

import (
	"context"
	"time"

	"github.com/Vaishnavi4104/TodoFlow/authsvc/inmem"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	"github.com/Vaishnavi4104/TodoFlow/usersvc/pkg/userservice"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"access_uuid", a.AccessUUID,
			"user_id", a.UserID,
			"title", task.Title,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, a, task)
}

func (mw loggingMiddleware) Tasks(ctx context.Context, a tasksvc.Auth) (t []tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Tasks",
			"access_uuid", a.AccessUUID,
			"user_id", a.UserID,
			"err", err,
		)
	}()
	return mw.next.Tasks(ctx, a)
}

func (mw loggingMiddleware) Task(ctx context.Context, a tasksvc.Auth, taskID string) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Task",
			"access_uuid", a.AccessUUID,
			"user_id", a.UserID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.Task(ctx, a, taskID)
}

func (mw loggingMiddleware) UpdateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "UpdateTask",
			"access_uuid", a.AccessUUID,
			"user_id", a.UserID,
			"task_id", task.ID,
			"title", task.Title,
			"completed", task.Completed,
			"err", err,
		)
	}()
	return mw.next.UpdateTask(ctx, a, task)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (result bool, err error) {
	defer func() {
		mw.logger.Log(
			"method", "DeleteTask",
			"access_uuid", a.AccessUUID,
			"user_id", a.UserID,
			"task_id", taskID,
			"result", result,
			"err", err,
		)
	}()
	return mw.next.DeleteTask(ctx, a, taskID)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_task").Add(1)
		mw.requestLatency.With("method", "create_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateTask(ctx, a, task)
}

func (mw instrumentingMiddleware) Tasks(ctx context.Context, a tasksvc.Auth) (t []tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "tasks").Add(1)
		mw.requestLatency.With("method", "tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Tasks(ctx, a)
}

func (mw instrumentingMiddleware) Task(ctx context.Context, a tasksvc.Auth, taskID string) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "task").Add(1)
		mw.requestLatency.With("method", "task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Task(ctx, a, taskID)
}

func (mw instrumentingMiddleware) UpdateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_task").Add(1)
		mw.requestLatency.With("method", "update_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateTask(ctx, a, task)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (result bool, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_task").Add(1)
		mw.requestLatency.With("method", "delete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteTask(ctx, a, taskID)
}

// AuthorizingMiddleware rejects calls whose token UUID has been revoked or
// whose claimed owner no longer exists, before any repository work runs.
func AuthorizingMiddleware(client inmem.Client, users userservice.Service) Middleware {
	return func(next Service) Service {
		return authorizingMiddleware{next, client, users}
	}
}

type authorizingMiddleware struct {
	next   Service
	client inmem.Client
	users  userservice.Service
}

func (mw authorizingMiddleware) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	if err := mw.validate(ctx, a); err != nil {
		return tasksvc.Task{}, err
	}
	return mw.next.CreateTask(ctx, a, task)
}

func (mw authorizingMiddleware) Tasks(ctx context.Context, a tasksvc.Auth) ([]tasksvc.Task, error) {
	if err := mw.validate(ctx, a); err != nil {
		return nil, err
	}
	return mw.next.Tasks(ctx, a)
}

func (mw authorizingMiddleware) Task(ctx context.Context, a tasksvc.Auth, taskID string) (tasksvc.Task, error) {
	if err := mw.validate(ctx, a); err != nil {
		return tasksvc.Task{}, err
	}
	return mw.next.Task(ctx, a, taskID)
}

func (mw authorizingMiddleware) UpdateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	if err := mw.validate(ctx, a); err != nil {
		return tasksvc.Task{}, err
	}
	return mw.next.UpdateTask(ctx, a, task)
}

func (mw authorizingMiddleware) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (bool, error) {
	if err := mw.validate(ctx, a); err != nil {
		return false, err
	}
	return mw.next.DeleteTask(ctx, a, taskID)
}

func (mw authorizingMiddleware) validate(ctx context.Context, a tasksvc.Auth) error {
	if err := mw.client.Get(a.AccessUUID); err != nil {
		return err
	}
	if _, err := mw.users.User(ctx, a.UserID); err != nil {
		return err
	}
	return nil
}
