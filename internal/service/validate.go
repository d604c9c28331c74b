package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"todolist/internal/dto"
	"todolist/internal/models/task"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired = "Required"
	msgFuture   = "Date has to be in the future"
)

// newValidator регистрирует правила runelen=min-max и future;
// today вызывается при каждой проверке future
func newValidator(today func() task.Date) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// нулевая дата превращается в nil, чтобы сработал required
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(task.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, task.Date{})

	_ = v.RegisterValidation("runelen", func(fl validator.FieldLevel) bool {
		low, high, err := parseRange(fl.Param())
		if err != nil {
			return false
		}
		n := utf8.RuneCountInString(fl.Field().String())
		return n >= low && n <= high
	})

	_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return task.DateOf(t).After(today())
	})

	return v
}

func parseRange(param string) (int, int, error) {
	lowText, highText, ok := strings.Cut(param, "-")
	if !ok {
		return 0, 0, fmt.Errorf("неверный диапазон %q", param)
	}
	low, err := strconv.Atoi(lowText)
	if err != nil {
		return 0, 0, err
	}
	high, err := strconv.Atoi(highText)
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

// validateStruct возвращает ValidationError со всеми нарушенными полями или nil
func (s *TaskService) validateStruct(value any) error {
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("проверка полей: %w", err)
	}

	fields := make([]dto.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, dto.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return NewValidationError(fields)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "runelen":
		return fmt.Sprintf("Required range %s characters", fe.Param())
	case "future":
		return msgFuture
	default:
		return fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
}
