package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStore             = errors.New("error del almacenamiento")
)

// StoreError envuelve un fallo del backend (red, cuota, permisos) en una operación concreta.
// errors.Is(err, ErrStore) es true; Unwrap conserva la causa original (pgx, redis).
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError envuelve err; devuelve nil si err es nil y no re-envuelve errores de dominio.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore.Error(), e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStore).
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// IsDomainError indica si err es uno de los errores de negocio (no de infraestructura).
func IsDomainError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return true
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientStock)
}
