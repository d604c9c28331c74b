package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todolist/internal/logger"
	"todolist/internal/models/task"
	repo "todolist/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

var taskColumns = []string{"id", "title", "status", "created", "deadline", "finished", "description"}

type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		config.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) FindByID(ctx context.Context, id int64) (task.Task, bool, error) {
	start := time.Now()
	defer warnIfSlow(start)

	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return task.Task{}, false, fmt.Errorf("построение запроса: %w", err)
	}

	found, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, false, nil
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("task_id", id))
		return task.Task{}, false, fmt.Errorf("получение задачи: %w", err)
	}
	return found, true, nil
}

func (s *Storage) FindAll(ctx context.Context) ([]task.Task, error) {
	start := time.Now()
	defer warnIfSlow(start)

	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}

// Save обновляет строку с тем же положительным id, иначе вставляет новую
// и получает id из последовательности BIGSERIAL
func (s *Storage) Save(ctx context.Context, taskToSave *task.Task) (task.Task, error) {
	start := time.Now()
	defer warnIfSlow(start)

	if taskToSave.ID > 0 {
		updated, err := s.update(ctx, taskToSave)
		if err != nil {
			return task.Task{}, err
		}
		if updated {
			return *taskToSave, nil
		}
	}

	query, args, err := s.builder.
		Insert("tasks").
		Columns(taskColumns[1:]...).
		Values(
			taskToSave.Title,
			string(taskToSave.Status),
			toPgDate(&taskToSave.Created),
			toPgDate(&taskToSave.Deadline),
			toPgDate(taskToSave.Finished),
			taskToSave.Description,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return task.Task{}, fmt.Errorf("построение запроса: %w", err)
	}

	if err := s.pool.QueryRow(ctx, query, args...).Scan(&taskToSave.ID); err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return task.Task{}, fmt.Errorf("добавление задачи: %w", err)
	}

	logger.Info("Repository: Задача добавлена", zap.Int64("task_id", taskToSave.ID))
	return *taskToSave, nil
}

func (s *Storage) update(ctx context.Context, taskToUpdate *task.Task) (bool, error) {
	query, args, err := s.builder.
		Update("tasks").
		SetMap(map[string]any{
			"title":       taskToUpdate.Title,
			"status":      string(taskToUpdate.Status),
			"created":     toPgDate(&taskToUpdate.Created),
			"deadline":    toPgDate(&taskToUpdate.Deadline),
			"finished":    toPgDate(taskToUpdate.Finished),
			"description": taskToUpdate.Description,
		}).
		Where(sq.Eq{"id": taskToUpdate.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("построение запроса: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("task_id", taskToUpdate.ID))
		return false, fmt.Errorf("обновление задачи: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Storage) CountSolvedOnDate(ctx context.Context, day task.Date) (int, error) {
	start := time.Now()
	defer warnIfSlow(start)

	query, args, err := s.builder.
		Select("COUNT(*)").
		From("tasks").
		Where(sq.Eq{"status": string(task.StatusCompleted), "finished": toPgDate(&day)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("построение запроса: %w", err)
	}

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		logger.Error("Repository: Не удалось посчитать решённые задачи", err)
		return 0, fmt.Errorf("подсчёт решённых задач: %w", err)
	}
	return count, nil
}

func (s *Storage) SolvedByDate(ctx context.Context) ([]task.SolvedDay, error) {
	start := time.Now()
	defer warnIfSlow(start)

	query, args, err := s.builder.
		Select("finished", "COUNT(*)").
		From("tasks").
		Where(sq.And{
			sq.Eq{"status": string(task.StatusCompleted)},
			sq.NotEq{"finished": nil},
		}).
		GroupBy("finished").
		OrderBy("finished").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить распределение по дням", err)
		return nil, fmt.Errorf("распределение по дням: %w", err)
	}
	defer rows.Close()

	res := []task.SolvedDay{}
	for rows.Next() {
		var finished pgtype.Date
		var count int
		if err := rows.Scan(&finished, &count); err != nil {
			return nil, fmt.Errorf("сканирование строки: %w", err)
		}
		res = append(res, task.SolvedDay{Day: task.DateOf(finished.Time), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return res, nil
}

func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	start := time.Now()
	defer warnIfSlow(start)

	query, args, err := s.builder.
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Int64("task_id", id))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Clear очищает таблицу и сбрасывает последовательность id
func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE TABLE tasks RESTART IDENTITY"); err != nil {
		return fmt.Errorf("очистка таблицы: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var (
		t                           task.Task
		status                      string
		created, deadline, finished pgtype.Date
	)

	err := row.Scan(&t.ID, &t.Title, &status, &created, &deadline, &finished, &t.Description)
	if err != nil {
		return task.Task{}, err
	}

	t.Status = task.Status(status)
	t.Created = task.DateOf(created.Time)
	t.Deadline = task.DateOf(deadline.Time)
	if finished.Valid {
		day := task.DateOf(finished.Time)
		t.Finished = &day
	}
	return t, nil
}

func toPgDate(d *task.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func warnIfSlow(start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
