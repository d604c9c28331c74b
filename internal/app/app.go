package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/logger"
	"todolist/internal/middleware"
	"todolist/internal/models/task"
	"todolist/internal/repository/task/inmemory"
	"todolist/internal/repository/task/postgres"
	"todolist/internal/service"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const serviceName = "todolist"

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    handlers.Service
	shutdowns  map[string]gfshutdown.Operation
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make(map[string]gfshutdown.Operation),
	}
}

// Init собирает цепочку хранилище -> сервис -> обработчики -> роутер -> сервер
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns["logger"] = func(context.Context) error {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
		return nil
	}

	repository, err := a.initRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.repository = repository

	a.service = service.NewTaskService(a.repository)
	a.initRouter()

	handler := otelhttp.NewHandler(a.router, serviceName)
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	a.shutdowns["http-server"] = func(ctx context.Context) error {
		logger.Info("Остановка HTTP сервера...")
		return a.server.Shutdown(ctx)
	}

	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.TaskRepository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}

		storage, err := postgres.New(ctx, postgres.Config{
			URL:             a.config.Database.URL,
			MaxConns:        a.config.Database.MaxConnections,
			MinConns:        a.config.Database.MinConnections,
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("подключение к базе данных: %w", err)
		}
		a.shutdowns["database"] = func(context.Context) error {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
			return nil
		}

		logger.Info("Хранилище: postgres")
		return storage, nil

	default:
		storage := inmemory.NewTaskStorage()
		if count := a.config.Seed.Count; count > 0 {
			seed := uint64(time.Now().UnixNano())
			storage.Seed(count, task.DateOf(time.Now()), rand.New(rand.NewPCG(seed, seed>>1)))
		}

		logger.Info("Хранилище: inmemory", zap.Int("seeded", storage.Len()))
		return storage, nil
	}
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Location", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(a.config.RateLimit.RequestsPerMinute))

	taskHandler := handlers.NewTaskHandler(a.service, a.config.Upload.MaxMemory)
	taskHandler.Register(r)

	a.router = r
}

// Handler возвращает корневой обработчик сервера вместе с трассировкой
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run блокируется до остановки сервера; штатная остановка не считается ошибкой
func (a *App) Run() error {
	logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http сервер: %w", err)
	}
	return nil
}

func (a *App) ShutdownOperations() map[string]gfshutdown.Operation {
	return a.shutdowns
}
