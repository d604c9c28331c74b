package service

import (
	"context"
	"todolist/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	FindByID(context.Context, int64) (task.Task, bool, error)
	FindAll(context.Context) ([]task.Task, error)
	Save(context.Context, *task.Task) (task.Task, error)
	CountSolvedOnDate(context.Context, task.Date) (int, error)
	SolvedByDate(context.Context) ([]task.SolvedDay, error)
	DeleteByID(context.Context, int64) error
	Clear(context.Context) error
}
