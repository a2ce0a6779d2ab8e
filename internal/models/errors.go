package models

import "fmt"

// ValidationError - пустое обязательное поле, радиус вне диапазона или неизвестное значение перечисления
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NotFoundError - операция ссылается на неизвестный id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("activity with id %s not found", e.ID)
}

// PersistenceError - документ не удалось прочитать, разобрать или записать
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LookupError - сбой внешнего сервиса геокодирования или погоды
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
