package service

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"todolist/internal/dto"
)

// коды ошибок бизнес-логики; HTTP-слой выбирает статус по коду
const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeMalformedInput = "MALFORMED_INPUT"
	CodeImportFailed   = "IMPORT_FAILED"
)

const (
	MsgNotFound         = "Entity not found"
	MsgValidationFailed = "Validation failed"
	MsgInvalidCSV       = "Invalid CSV format"
	MsgInvalidStatus    = "Invalid status. Allowed values: CREATED, IN_PROCESS, COMPLETED, FAILED."
)

type BusinessError struct {
	Code    string
	Message string
	Fields  []dto.FieldError
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

// AsBusinessError достаёт BusinessError из цепочки обёрток
func AsBusinessError(err error) (*BusinessError, bool) {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr, true
	}
	return nil, false
}

func NewNotFound(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: MsgNotFound,
		Err:     err,
	}
}

// NewValidationError сортирует ошибки по полю, затем по сообщению
func NewValidationError(fields []dto.FieldError) *BusinessError {
	sorted := slices.Clone(fields)
	slices.SortFunc(sorted, func(a, b dto.FieldError) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Message, b.Message))
	})
	return &BusinessError{
		Code:    CodeValidation,
		Message: MsgValidationFailed,
		Fields:  sorted,
	}
}

func NewMalformedInput(message string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeMalformedInput,
		Message: message,
		Err:     err,
	}
}

// NewImportFailed скрывает причину: клиент получает только общее сообщение
func NewImportFailed(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeImportFailed,
		Message: MsgInvalidCSV,
		Err:     err,
	}
}
