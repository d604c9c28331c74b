package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidStatus = errors.New("invalid status")

type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"runelen=2-30"`
	Status      Status  `json:"status" validate:"required"`
	Created     Date    `json:"created" validate:"required"`
	Deadline    Date    `json:"deadline" validate:"required"`
	Finished    *Date   `json:"finished"`
	Description *string `json:"description" validate:"omitempty,runelen=5-250"`
}

// IsSolvedOn сообщает, завершена ли задача в указанный день
func (t Task) IsSolvedOn(day Date) bool {
	return t.Status == StatusCompleted && t.Finished != nil && t.Finished.Equal(day)
}

// SolvedDay - количество завершённых задач за один календарный день
type SolvedDay struct {
	Day   Date
	Count int
}

type Status string

const StatusCreated Status = "CREATED"
const StatusInProcess Status = "IN_PROCESS"
const StatusCompleted Status = "COMPLETED"
const StatusFailed Status = "FAILED"

var Statuses = []Status{StatusCreated, StatusInProcess, StatusCompleted, StatusFailed}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus разбирает название статуса без учёта регистра
func ParseStatus(name string) (Status, error) {
	status := Status(strings.ToUpper(name))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}
	return status, nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, string(data))
	}

	status := Status(name)
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}
	*s = status
	return nil
}
