package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
	"todolist/internal/dto"
	"todolist/internal/logger"
	"todolist/internal/models/page"
	"todolist/internal/models/task"
	"todolist/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	serviceName = "todolist"

	uploadField            = "file"
	defaultUploadMaxMemory = 32 << 20
)

type TaskHandler struct {
	TaskService     Service
	UploadMaxMemory int64
}

func NewTaskHandler(taskService Service, uploadMaxMemory int64) TaskHandler {
	if uploadMaxMemory <= 0 {
		uploadMaxMemory = defaultUploadMaxMemory
	}
	return TaskHandler{
		TaskService:     taskService,
		UploadMaxMemory: uploadMaxMemory,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName))
}

func (s *TaskHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetOne(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", found.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, found)
}

func (s *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	number, size, ok := parsePageParams(w, r)
	if !ok {
		return
	}

	tasks, err := s.TaskService.GetAll(r.Context(), number, size)
	if err != nil {
		handleServiceError(w, r, err, "get_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", tasks.NumberOfElements),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, tasks)
}

func (s *TaskHandler) GetSolvedPerDay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	solved, err := s.TaskService.GetSolvedPerDay(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		handleServiceError(w, r, err, "get_solved_per_day")
		return
	}

	logger.Info("HTTP_OUT: Решённые за день получены",
		zap.String("day", solved.Day),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, solved)
}

func (s *TaskHandler) GetSolvedSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	number, size, ok := parsePageParams(w, r)
	if !ok {
		return
	}

	summary, err := s.TaskService.GetSolvedSummary(r.Context(), number, size)
	if err != nil {
		handleServiceError(w, r, err, "get_solved_summary")
		return
	}

	logger.Info("HTTP_OUT: Распределение по дням получено",
		zap.Int("days", summary.NumberOfElements),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, summary)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.TaskService.Create(r.Context(), request)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	w.Header().Set("Location", "/api/task/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, created)
}

func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !requireJSON(w, r) {
		return
	}

	var request task.Task
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := s.TaskService.Update(r.Context(), request)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, updated)
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteByID(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) ImportNew(w http.ResponseWriter, r *http.Request) {
	s.importCSV(w, r, "import_new", s.TaskService.ImportCreate)
}

func (s *TaskHandler) ImportExist(w http.ResponseWriter, r *http.Request) {
	s.importCSV(w, r, "import_exist", s.TaskService.ImportExist)
}

type importFunc = func(ctx context.Context, r io.Reader) (page.Page[dto.TaskSummary], error)

func (s *TaskHandler) importCSV(w http.ResponseWriter, r *http.Request, operation string, run importFunc) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := r.ParseMultipartForm(s.UploadMaxMemory); err != nil {
		logger.Warn("HTTP: Ошибка чтения multipart",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		logger.Warn("HTTP: Файл не передан",
			zap.String("field", uploadField),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "Required part '"+uploadField+"' is not present.")
		return
	}
	defer file.Close()

	logger.Info("HTTP: Вызов сервиса импорта",
		zap.String("operation", operation),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	tasks, err := run(r.Context(), file)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Импорт выполнен",
		zap.String("operation", operation),
		zap.Int("total", tasks.TotalElements),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, tasks)
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}

	logger.Warn("HTTP: Неверный тип контента",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	return false
}

// decodeJSON отвечает 400 при ошибке разбора; неизвестный статус получает отдельное сообщение
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil {
		return true
	}

	logger.Warn("HTTP: Ошибка чтения JSON",
		zap.Error(err),
		zap.String("client_ip", r.RemoteAddr))

	if errors.Is(err, task.ErrInvalidStatus) {
		responseWithError(w, http.StatusBadRequest, service.MsgInvalidStatus)
		return false
	}
	responseWithError(w, http.StatusBadRequest, "Invalid input: "+err.Error())
	return false
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.String("id", idParam),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Invalid input: "+err.Error())
		return 0, false
	}
	return id, true
}

// parsePageParams читает page и size; отсутствующий параметр заменяется значением по умолчанию
func parsePageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	number, err := queryInt(r, "page", 0)
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "Invalid input: "+err.Error())
		return 0, 0, false
	}

	size, err := queryInt(r, "size", page.DefaultSize)
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "Invalid input: "+err.Error())
		return 0, 0, false
	}
	return number, size, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("HTTP: Ошибка получения параметра",
			zap.String("query", key),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		return 0, err
	}
	return value, nil
}
