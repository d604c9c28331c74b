package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	"todolist/internal/models/task"
	"todolist/internal/repository"
	"todolist/internal/repository/task/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	day      = task.NewDate(2025, time.July, 4)
	created  = task.NewDate(2025, time.June, 30)
	deadline = task.NewDate(2025, time.August, 1)
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container testcontainers.Container
	storage   *postgres.Storage
	ctx       context.Context
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), postgres.Migrate(connString))

	s.storage, err = postgres.New(s.ctx, postgres.Config{URL: connString, MaxConns: 5})
	require.NoError(s.T(), err)
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицу и сбрасывает последовательность перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	require.NoError(s.T(), s.storage.Clear(s.ctx))
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) save(title string, options ...task.TaskOption) task.Task {
	t := task.New(title, created, deadline, options...)
	saved, err := s.storage.Save(s.ctx, &t)
	require.NoError(s.T(), err)
	return saved
}

func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

// TestStorage_SaveAndFind тестирует вставку и чтение
func (s *PostgresTestSuite) TestStorage_SaveAndFind() {
	saved := s.save("Code review",
		task.WithStatus(task.StatusCompleted),
		task.WithFinished(day),
		task.WithDescription("Review the codebase"))
	assert.Equal(s.T(), int64(1), saved.ID)

	found, ok, err := s.storage.FindByID(s.ctx, saved.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), saved, found)

	_, ok, err = s.storage.FindByID(s.ctx, 100)
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

// TestStorage_SaveReplaces тестирует замену по существующему id
func (s *PostgresTestSuite) TestStorage_SaveReplaces() {
	s.save("First")
	s.save("Second")

	replacement := task.New("Replaced", created, deadline, task.WithID(1), task.WithStatus(task.StatusFailed))
	_, err := s.storage.Save(s.ctx, &replacement)
	require.NoError(s.T(), err)

	// неизвестный id получает новое значение из последовательности
	unknown := task.New("Unknown", created, deadline, task.WithID(500))
	saved, err := s.storage.Save(s.ctx, &unknown)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), saved.ID)

	all, err := s.storage.FindAll(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 3)
	assert.Equal(s.T(), "Replaced", all[0].Title)
	assert.Equal(s.T(), task.StatusFailed, all[0].Status)
	assert.Equal(s.T(), "Second", all[1].Title)
	assert.Nil(s.T(), all[1].Description)
}

// TestStorage_DeleteByID тестирует удаление
func (s *PostgresTestSuite) TestStorage_DeleteByID() {
	saved := s.save("To delete")

	require.NoError(s.T(), s.storage.DeleteByID(s.ctx, saved.ID))

	err := s.storage.DeleteByID(s.ctx, saved.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_Solved тестирует агрегаты по завершённым задачам
func (s *PostgresTestSuite) TestStorage_Solved() {
	s.save("One", task.WithStatus(task.StatusCompleted), task.WithFinished(day))
	s.save("Two", task.WithStatus(task.StatusCompleted), task.WithFinished(day))
	s.save("Three", task.WithStatus(task.StatusCompleted), task.WithFinished(day.AddDays(-2)))
	s.save("Four", task.WithStatus(task.StatusFailed), task.WithFinished(day))
	s.save("Five")

	count, err := s.storage.CountSolvedOnDate(s.ctx, day)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)

	summary, err := s.storage.SolvedByDate(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []task.SolvedDay{
		{Day: day.AddDays(-2), Count: 1},
		{Day: day, Count: 2},
	}, summary)
}

// TestStorage_Clear тестирует сброс последовательности
func (s *PostgresTestSuite) TestStorage_Clear() {
	s.save("One")
	s.save("Two")

	require.NoError(s.T(), s.storage.Clear(s.ctx))

	all, err := s.storage.FindAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), all)

	saved := s.save("Again")
	assert.Equal(s.T(), int64(1), saved.ID)
}
