package inmemory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"todolist/internal/logger"
	"todolist/internal/models/task"
	repo "todolist/internal/repository"

	"go.uber.org/zap"
)

const firstID int64 = 1

// TaskStorage хранит задачи в памяти процесса.
// ids всегда отсортирован по возрастанию, счётчик nextID больше любого ключа
type TaskStorage struct {
	storage map[int64]task.Task
	ids     []int64
	mtx     *sync.RWMutex
	nextID  atomic.Int64
}

func NewTaskStorage() *TaskStorage {
	s := &TaskStorage{
		storage: make(map[int64]task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
	}
	s.nextID.Store(firstID)
	return s
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *TaskStorage) FindByID(ctx context.Context, id int64) (task.Task, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	return taskToGet, ok, nil
}

// все задачи по возрастанию id
func (s *TaskStorage) FindAll(ctx context.Context) ([]task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id])
	}
	return res, nil
}

// Save заменяет существующую запись с тем же положительным id,
// иначе назначает следующий id из счётчика и добавляет задачу
func (s *TaskStorage) Save(ctx context.Context, taskToSave *task.Task) (task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToSave.ID > 0 {
		if _, ok := s.storage[taskToSave.ID]; ok {
			s.storage[taskToSave.ID] = *taskToSave
			return *taskToSave, nil
		}
	}

	taskToSave.ID = s.nextID.Add(1) - 1
	s.insert(*taskToSave)

	logger.Info("Repository: Задача добавлена", zap.Int64("task_id", taskToSave.ID))
	return *taskToSave, nil
}

func (s *TaskStorage) insert(t task.Task) {
	s.storage[t.ID] = t
	pos, found := slices.BinarySearch(s.ids, t.ID)
	if !found {
		s.ids = slices.Insert(s.ids, pos, t.ID)
	}
}

func (s *TaskStorage) CountSolvedOnDate(ctx context.Context, day task.Date) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.storage {
		if t.IsSolvedOn(day) {
			count++
		}
	}
	return count, nil
}

// количество завершённых задач по дням, по возрастанию даты, без пропущенных дней
func (s *TaskStorage) SolvedByDate(ctx context.Context) ([]task.SolvedDay, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	counts := make(map[task.Date]int)
	for _, t := range s.storage {
		if t.Status == task.StatusCompleted && t.Finished != nil {
			counts[*t.Finished]++
		}
	}

	res := make([]task.SolvedDay, 0, len(counts))
	for day, count := range counts {
		res = append(res, task.SolvedDay{Day: day, Count: count})
	}
	slices.SortFunc(res, func(a, b task.SolvedDay) int {
		return a.Day.Compare(b.Day.Time)
	})
	return res, nil
}

func (s *TaskStorage) DeleteByID(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	if pos, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, pos, pos+1)
	}
	return nil
}

// Clear нужен для изоляции тестов: удаляет всё и сбрасывает счётчик
func (s *TaskStorage) Clear(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[int64]task.Task)
	s.ids = []int64{}
	s.nextID.Store(firstID)
	return nil
}

func (s *TaskStorage) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}
