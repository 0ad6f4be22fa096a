package service

import (
	"errors"
	"fmt"
)

// Kind категория ошибки сервисного слоя
type Kind int

const (
	// KindInternal сбой хранилища или драйвера
	KindInternal Kind = iota
	// KindValidation некорректные входные данные клиента
	KindValidation
	// KindNotFound сущность с указанным ID не существует
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error ошибка сервисного слоя
type Error struct {
	Kind    Kind
	Message string
	Entity  string // только для KindNotFound
	ID      int64  // только для KindNotFound
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError создает ошибку валидации
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFoundError создает ошибку "не найдено" для сущности с ID
func NotFoundError(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %d not found", entity, id),
		Entity:  entity,
		ID:      id,
	}
}

// InternalError оборачивает ошибку хранилища
func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf возвращает категорию ошибки. Ошибки не из сервиса считаются внутренними.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
