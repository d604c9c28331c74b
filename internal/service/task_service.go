package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"todolist/internal/dto"
	"todolist/internal/logger"
	"todolist/internal/models/page"
	"todolist/internal/models/task"
	rep "todolist/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// после импорта возвращается первая страница обновлённого списка
const importPageSize = page.DefaultSize

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo     TaskRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(repo TaskRepository, options ...Option) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.validate = newValidator(s.today)
	return s
}

func (s *TaskService) today() task.Date {
	return task.DateOf(s.now())
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) GetOne(ctx context.Context, id int64) (task.Task, error) {
	found, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("получение задачи: %w", err)
	}
	if !ok {
		logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
		return task.Task{}, NewNotFound(rep.ErrNotFound)
	}
	return found, nil
}

func (s *TaskService) GetAll(ctx context.Context, number, size int) (page.Page[dto.TaskSummary], error) {
	if err := checkPageRequest(number, size); err != nil {
		return page.Page[dto.TaskSummary]{}, err
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return page.Page[dto.TaskSummary]{}, fmt.Errorf("получение задач: %w", err)
	}
	return page.Of(dto.ToSummaryList(tasks), number, size), nil
}

func (s *TaskService) Create(ctx context.Context, request dto.CreateTaskRequest) (task.Task, error) {
	if err := s.validateStruct(request); err != nil {
		logger.Info("Service: Запрос на создание не прошёл проверку", zap.Error(err))
		return task.Task{}, err
	}

	newTask := request.ToTask(s.today())
	saved, err := s.repo.Save(ctx, &newTask)
	if err != nil {
		return task.Task{}, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", saved.ID))
	return saved, nil
}

// Update полностью заменяет существующую запись переданной.
// Чтение нужно только для ответа NotFound, прочитанные значения не используются.
// Без created в запросе подставляется сегодняшняя дата
func (s *TaskService) Update(ctx context.Context, incoming task.Task) (task.Task, error) {
	if incoming.Created.IsZero() {
		incoming.Created = s.today()
	}
	if err := s.validateStruct(incoming); err != nil {
		return task.Task{}, err
	}

	if _, err := s.GetOne(ctx, incoming.ID); err != nil {
		return task.Task{}, err
	}

	saved, err := s.repo.Save(ctx, &incoming)
	if err != nil {
		return task.Task{}, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена", zap.Int64("task_id", saved.ID))
	return saved, nil
}

// ImportCreate создаёт задачи из CSV (title, deadline, description).
// Все строки проверяются до сохранения: первая ошибка отменяет весь импорт
func (s *TaskService) ImportCreate(ctx context.Context, r io.Reader) (page.Page[dto.TaskSummary], error) {
	rows, err := readDataRows(r)
	if err != nil {
		return page.Page[dto.TaskSummary]{}, s.importFailed(err)
	}

	requests := make([]dto.CreateTaskRequest, 0, len(rows))
	for i, row := range rows {
		request, err := parseCreateRow(row)
		if err != nil {
			return page.Page[dto.TaskSummary]{}, s.importFailed(fmt.Errorf("строка %d: %w", i+2, err))
		}
		if err := s.validateStruct(request); err != nil {
			return page.Page[dto.TaskSummary]{}, s.importFailed(fmt.Errorf("строка %d: %w", i+2, err))
		}
		requests = append(requests, request)
	}

	today := s.today()
	for _, request := range requests {
		newTask := request.ToTask(today)
		if _, err := s.repo.Save(ctx, &newTask); err != nil {
			return page.Page[dto.TaskSummary]{}, fmt.Errorf("импорт задач: %w", err)
		}
	}

	logger.Info("Service: Импорт новых задач завершён", zap.Int("count", len(requests)))
	return s.GetAll(ctx, 0, importPageSize)
}

// ImportExist сохраняет задачи из CSV как есть
// (id, title, status, created, deadline, finished, description)
func (s *TaskService) ImportExist(ctx context.Context, r io.Reader) (page.Page[dto.TaskSummary], error) {
	rows, err := readDataRows(r)
	if err != nil {
		return page.Page[dto.TaskSummary]{}, s.importFailed(err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for i, row := range rows {
		parsed, err := parseExistRow(row)
		if err != nil {
			return page.Page[dto.TaskSummary]{}, s.importFailed(fmt.Errorf("строка %d: %w", i+2, err))
		}
		if err := s.validateStruct(parsed); err != nil {
			return page.Page[dto.TaskSummary]{}, s.importFailed(fmt.Errorf("строка %d: %w", i+2, err))
		}
		tasks = append(tasks, parsed)
	}

	for i := range tasks {
		if _, err := s.repo.Save(ctx, &tasks[i]); err != nil {
			return page.Page[dto.TaskSummary]{}, fmt.Errorf("импорт задач: %w", err)
		}
	}

	logger.Info("Service: Импорт существующих задач завершён", zap.Int("count", len(tasks)))
	return s.GetAll(ctx, 0, importPageSize)
}

func (s *TaskService) importFailed(err error) error {
	logger.Warn("Service: Ошибка импорта CSV", zap.Error(err))
	return NewImportFailed(err)
}

func (s *TaskService) GetSolvedSummary(ctx context.Context, number, size int) (page.Page[dto.SolvedPerDay], error) {
	if err := checkPageRequest(number, size); err != nil {
		return page.Page[dto.SolvedPerDay]{}, err
	}

	days, err := s.repo.SolvedByDate(ctx)
	if err != nil {
		return page.Page[dto.SolvedPerDay]{}, fmt.Errorf("распределение по дням: %w", err)
	}

	summary := make([]dto.SolvedPerDay, len(days))
	for i, d := range days {
		summary[i] = dto.FromSolvedDay(d)
	}
	return page.Of(summary, number, size), nil
}

func (s *TaskService) GetSolvedPerDay(ctx context.Context, day string) (dto.SolvedPerDay, error) {
	date, err := task.ParseDate(day)
	if err != nil {
		return dto.SolvedPerDay{}, NewMalformedInput(
			fmt.Sprintf("Text '%s' could not be parsed: %s", day, err.Error()), err)
	}

	count, err := s.repo.CountSolvedOnDate(ctx, date)
	if err != nil {
		return dto.SolvedPerDay{}, fmt.Errorf("подсчёт решённых задач: %w", err)
	}
	return dto.SolvedPerDay{Day: day, CountOfSolved: count}, nil
}

func (s *TaskService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача для удаления не найдена", zap.Int64("target_id", id))
			return NewNotFound(err)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func checkPageRequest(number, size int) error {
	if number < 0 {
		return NewMalformedInput("Page index must not be less than zero", nil)
	}
	if size < 1 || size > page.MaxSize {
		return NewMalformedInput(fmt.Sprintf("Page size must be between 1 and %d", page.MaxSize), nil)
	}
	return nil
}
