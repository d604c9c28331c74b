package handlers

import (
	"net/http"
	"todolist/internal/logger"
	"todolist/internal/service"

	"go.uber.org/zap"
)

// handleServiceError пишет ответ для любой ошибки сервиса;
// всё, что не является BusinessError, превращается в 500
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, "Internal server error")
}

func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode),
		zap.Error(businessErr.Err))

	if businessErr.Code == service.CodeValidation {
		responseWithFieldErrors(w, statusCode, businessErr.Message, businessErr.Fields)
		return true
	}
	responseWithError(w, statusCode, businessErr.Message)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeMalformedInput, service.CodeImportFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
