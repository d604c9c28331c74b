package handlers

import (
	"encoding/json"
	"net/http"
	"time"
	"todolist/internal/dto"
	"todolist/internal/logger"
)

// формат timestamp в телах ошибок
const timestampLayout = "2006-01-02T15:04:05.000"

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any, len(payload))
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	writeJSON(w, code, storage)
}

// writeJSON кодирует значение целиком, без обёртки в ключи
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func errorPayloads(code int, message string) []Payload {
	return []Payload{
		toPayload("timestamp", time.Now().Format(timestampLayout)),
		toPayload("status", code),
		toPayload("error", message),
	}
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, errorPayloads(code, message)...)
}

func responseWithFieldErrors(w http.ResponseWriter, code int, message string, fields []dto.FieldError) {
	if fields == nil {
		fields = []dto.FieldError{}
	}
	payloads := append(errorPayloads(code, message), toPayload("listOfErrors", fields))
	responseWithJSON(w, code, payloads...)
}
