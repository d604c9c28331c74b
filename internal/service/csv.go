package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"todolist/internal/dto"
	"todolist/internal/models/task"
)

const (
	newTaskFields   = 3 // title, deadline, description
	existTaskFields = 7 // id, title, status, created, deadline, finished, description
)

// readDataRows читает весь CSV и отбрасывает строку заголовка
func readDataRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("чтение csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func parseCreateRow(row []string) (dto.CreateTaskRequest, error) {
	if len(row) < newTaskFields {
		return dto.CreateTaskRequest{}, fmt.Errorf("ожидалось %d полей, получено %d", newTaskFields, len(row))
	}

	deadline, err := task.ParseDate(row[1])
	if err != nil {
		return dto.CreateTaskRequest{}, fmt.Errorf("deadline: %w", err)
	}

	return dto.CreateTaskRequest{
		Title:       row[0],
		Deadline:    deadline,
		Description: optionalString(row[2]),
	}, nil
}

func parseExistRow(row []string) (task.Task, error) {
	if len(row) < existTaskFields {
		return task.Task{}, fmt.Errorf("ожидалось %d полей, получено %d", existTaskFields, len(row))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return task.Task{}, fmt.Errorf("id: %w", err)
	}

	status, err := task.ParseStatus(row[2])
	if err != nil {
		return task.Task{}, fmt.Errorf("status: %w", err)
	}

	created, err := task.ParseDate(row[3])
	if err != nil {
		return task.Task{}, fmt.Errorf("created: %w", err)
	}

	deadline, err := task.ParseDate(row[4])
	if err != nil {
		return task.Task{}, fmt.Errorf("deadline: %w", err)
	}

	var finished *task.Date
	if row[5] != "" {
		day, err := task.ParseDate(row[5])
		if err != nil {
			return task.Task{}, fmt.Errorf("finished: %w", err)
		}
		finished = &day
	}

	return task.Task{
		ID:          id,
		Title:       row[1],
		Status:      status,
		Created:     created,
		Deadline:    deadline,
		Finished:    finished,
		Description: optionalString(row[6]),
	}, nil
}

// пустая ячейка означает отсутствие значения
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
