package dto

import (
	"todolist/internal/models/task"
)

// placeholderID перезаписывается хранилищем при сохранении
const placeholderID int64 = -1

type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"runelen=2-30"`
	Deadline    task.Date `json:"deadline" validate:"required,future"`
	Description *string   `json:"description" validate:"omitempty,runelen=5-250"`
}

// ToTask создаёт новую задачу: статус CREATED, created = today, без даты завершения
func (r CreateTaskRequest) ToTask(today task.Date) task.Task {
	return task.Task{
		ID:          placeholderID,
		Title:       r.Title,
		Status:      task.StatusCreated,
		Created:     today,
		Deadline:    r.Deadline,
		Finished:    nil,
		Description: r.Description,
	}
}

// TaskSummary - сокращённое представление задачи для списков
type TaskSummary struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Status   task.Status `json:"status"`
	Deadline task.Date   `json:"deadline"`
}

func ToSummary(t task.Task) TaskSummary {
	return TaskSummary{
		ID:       t.ID,
		Title:    t.Title,
		Status:   t.Status,
		Deadline: t.Deadline,
	}
}

func ToSummaryList(tasks []task.Task) []TaskSummary {
	result := make([]TaskSummary, len(tasks))
	for i, t := range tasks {
		result[i] = ToSummary(t)
	}
	return result
}

type SolvedPerDay struct {
	Day           string `json:"day"`
	CountOfSolved int    `json:"countOfSolved"`
}

func FromSolvedDay(d task.SolvedDay) SolvedPerDay {
	return SolvedPerDay{
		Day:           d.Day.String(),
		CountOfSolved: d.Count,
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
