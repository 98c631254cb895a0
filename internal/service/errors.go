package service

import (
	"errors"
	"fmt"

	"agency-portal/internal/store"
)

// ValidationError — входные данные не прошли проверку; вызывающий может повторить ввод.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NotFoundError — сущности с таким ID нет на момент операции.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ConflictError — переход состояния запрещён текущим состоянием записи.
type ConflictError struct {
	Entity  string
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Entity, e.ID, e.Message)
}

// StoreError — отказ хранилища. Повторов и отката нет.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// lookupErr переводит ошибку чтения сущности в NotFoundError или StoreError.
func lookupErr(op, entity, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &StoreError{Op: op, Err: err}
}

// refErr — то же для внешних ключей: несуществующая ссылка это ошибка ввода.
func refErr(op, field string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return invalid(field, "does not exist")
	}
	return &StoreError{Op: op, Err: err}
}

func writeErr(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &StoreError{Op: op, Err: err}
}
