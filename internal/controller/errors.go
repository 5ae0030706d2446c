package controller

import (
	"errors"
	"fmt"
)

// Причины отказа в применении окна дат
var (
	ErrMissingBound  = errors.New("date bound is missing")
	ErrInvalidDate   = errors.New("date is not a valid YYYY-MM-DD")
	ErrInvertedRange = errors.New("start date is after end date")
)

// Поля формы фильтра
const (
	FieldStart = "start_date"
	FieldEnd   = "end_date"
	FieldRange = "date_range"
)

// ValidationError ошибка ввода пользователя. Состояние фильтра при ней не меняется.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage текст для блокирующего сообщения в интерфейсе
func (e *ValidationError) UserMessage() string {
	switch {
	case errors.Is(e.Err, ErrMissingBound):
		return "Please select both start and end dates"
	case errors.Is(e.Err, ErrInvertedRange):
		return "Start date must not be after end date"
	case errors.Is(e.Err, ErrInvalidDate):
		return "Dates must use the YYYY-MM-DD format"
	default:
		return e.Error()
	}
}

// IsValidation сообщает, что err вызвана вводом пользователя
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
