package task_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
	"todolist/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected task.Status
		wantErr  bool
	}{
		{input: "CREATED", expected: task.StatusCreated},
		{input: "in_process", expected: task.StatusInProcess},
		{input: "Completed", expected: task.StatusCompleted},
		{input: "failed", expected: task.StatusFailed},
		{input: "done", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := task.ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, task.ErrInvalidStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	var status task.Status
	require.NoError(t, json.Unmarshal([]byte(`"IN_PROCESS"`), &status))
	assert.Equal(t, task.StatusInProcess, status)

	// JSON принимает только точное название
	err := json.Unmarshal([]byte(`"in_process"`), &status)
	require.Error(t, err)
	assert.True(t, errors.Is(err, task.ErrInvalidStatus))

	err = json.Unmarshal([]byte(`42`), &status)
	assert.True(t, errors.Is(err, task.ErrInvalidStatus))
}

func TestDate_JSON(t *testing.T) {
	d := task.NewDate(2025, time.July, 4)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-07-04"`, string(data))

	var parsed task.Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, d, parsed)

	err = json.Unmarshal([]byte(`"2025-07-48"`), &parsed)
	assert.Error(t, err)

	data, err = json.Marshal(task.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestDateOf(t *testing.T) {
	moment := time.Date(2025, time.July, 4, 23, 59, 1, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, task.NewDate(2025, time.July, 4), task.DateOf(moment))
}

func TestDate_Compare(t *testing.T) {
	today := task.NewDate(2025, time.July, 4)
	tomorrow := today.AddDays(1)

	assert.True(t, tomorrow.After(today))
	assert.True(t, today.Before(tomorrow))
	assert.True(t, today.Equal(task.NewDate(2025, time.July, 4)))
	assert.Equal(t, "2025-07-05", tomorrow.String())
}

func TestTask_JSON(t *testing.T) {
	created := task.NewDate(2025, time.July, 10)
	tsk := task.New("Write documentation", created, created.AddDays(22), task.WithID(1))

	data, err := json.Marshal(tsk)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"title": "Write documentation",
		"status": "CREATED",
		"created": "2025-07-10",
		"deadline": "2025-08-01",
		"finished": null,
		"description": null
	}`, string(data))
}

func TestTask_IsSolvedOn(t *testing.T) {
	day := task.NewDate(2025, time.July, 4)
	created := day.AddDays(-4)

	completed := task.New("Code review", created, day.AddDays(1),
		task.WithStatus(task.StatusCompleted), task.WithFinished(day))
	finishedButFailed := task.New("Code review", created, day.AddDays(1),
		task.WithStatus(task.StatusFailed), task.WithFinished(day))
	completedNoDate := task.New("Code review", created, day.AddDays(1),
		task.WithStatus(task.StatusCompleted))

	assert.True(t, completed.IsSolvedOn(day))
	assert.False(t, completed.IsSolvedOn(day.AddDays(1)))
	assert.False(t, finishedButFailed.IsSolvedOn(day))
	assert.False(t, completedNoDate.IsSolvedOn(day))
}

func TestNew_SkipsEmptyOptions(t *testing.T) {
	created := task.NewDate(2025, time.July, 10)
	tsk := task.New("Title", created, created, task.WithDescription(""), task.WithStatus(""))

	assert.Nil(t, tsk.Description)
	assert.Equal(t, task.StatusCreated, tsk.Status)
}
