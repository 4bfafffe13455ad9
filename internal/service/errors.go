package service

import (
	"errors"
	"fmt"
	"strings"
)

// Сентинельные ошибки сервисного слоя. Хендлеры транслируют их в HTTP-коды.
var (
	// ErrNotFound — целевая сущность не существует.
	ErrNotFound = errors.New("not found")

	// ErrForbidden — аутентифицирован, но не автор изменяемой записи.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict — нарушение уникальности (повторная регистрация email).
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldProblem — одна проблема валидации на уровне поля.
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError — структурированный список проблем валидации запроса.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Message))
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
