package inmemory

import (
	"fmt"
	"math/rand/v2"
	"todolist/internal/logger"
	"todolist/internal/models/task"

	"go.uber.org/zap"
)

// Seed заполняет хранилище демонстрационными задачами с id 1..count.
// Завершённые задачи получают дату завершения между created и deadline.
// Счётчик продолжается после последнего ключа
func (s *TaskStorage) Seed(count int, today task.Date, rnd *rand.Rand) {
	if count <= 0 {
		return
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := 1; i <= count; i++ {
		status := task.Statuses[rnd.IntN(len(task.Statuses))]
		created := today.AddDays(-rnd.IntN(30))
		span := rnd.IntN(30)
		deadline := created.AddDays(span)

		options := []task.TaskOption{
			task.WithID(int64(i)),
			task.WithStatus(status),
		}
		if status == task.StatusCompleted {
			options = append(options, task.WithFinished(created.AddDays(rnd.IntN(span+1))))
		}
		if rnd.IntN(2) == 0 {
			options = append(options, task.WithDescription(fmt.Sprintf("Random description for task %d", i)))
		}

		s.insert(task.New(fmt.Sprintf("Task %d", i), created, deadline, options...))
	}

	last := s.ids[len(s.ids)-1]
	if s.nextID.Load() <= last {
		s.nextID.Store(last + 1)
	}

	logger.Info("Repository: Хранилище заполнено демонстрационными задачами", zap.Int("count", count))
}
