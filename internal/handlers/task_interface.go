package handlers

import (
	"context"
	"io"
	"todolist/internal/dto"
	"todolist/internal/models/page"
	"todolist/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	GetOne(context.Context, int64) (task.Task, error)
	GetAll(context.Context, int, int) (page.Page[dto.TaskSummary], error)
	Create(context.Context, dto.CreateTaskRequest) (task.Task, error)
	Update(context.Context, task.Task) (task.Task, error)
	ImportCreate(context.Context, io.Reader) (page.Page[dto.TaskSummary], error)
	ImportExist(context.Context, io.Reader) (page.Page[dto.TaskSummary], error)
	GetSolvedSummary(context.Context, int, int) (page.Page[dto.SolvedPerDay], error)
	GetSolvedPerDay(context.Context, string) (dto.SolvedPerDay, error)
	DeleteByID(context.Context, int64) error
}
