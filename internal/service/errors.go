package service

import (
	"Inventaris/internal/repo"
	"errors"
	"fmt"
)

// Таксономия ошибок сервиса. Обработчики различают их через errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("forbidden")
	ErrStorage           = errors.New("storage error")
	// ErrConsistency: откат не удался, остаток и журнал выдач разошлись.
	ErrConsistency = errors.New("consistency error")

	ErrItemOnLoan         = errors.New("item has outstanding borrowings")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// fromRepo переводит ошибку хранилища в таксономию сервиса.
func fromRepo(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case errors.Is(err, repo.ErrNegativeStock):
		return fmt.Errorf("%w: %s", ErrInsufficientStock, op)
	case errors.Is(err, repo.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrLoginTaken, op)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
}
