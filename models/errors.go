package models

import "fmt"

// ValidationError indicates malformed user input (date, time, name). The
// conversation engine recovers locally with a corrective re-prompt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotAvailableError indicates an exhausted slot or resource pool. Recovered
// by re-offering the current step with refreshed data.
type NotAvailableError struct {
	Message string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("notAvailable: %s", e.Message)
}

func NewNotAvailableError(msg string) error {
	return &NotAvailableError{Message: msg}
}

// ConflictError indicates a lost race at commit time: another booking took
// the slot between the advisory availability check and the atomic insert.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

// NotFoundError indicates a referenced service, booking or session vanished.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("notFound: %s %s", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// TransportError indicates an outbound message could not be delivered.
// Session state is not rolled back on transport failure.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Message, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func NewTransportError(msg string, err error) error {
	return &TransportError{Message: msg, Err: err}
}

// StorageError indicates an underlying persistence failure. Surfaced to the
// caller as a generic failure; the session is reset and nothing is partially
// committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
