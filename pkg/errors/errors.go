package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
)

type CustomError interface {
	Error() string
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UniqueViolationError is a ValidationError raised by the store for a duplicate unique key.
type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// TransitionError reports a state change that is not allowed from the
// resource's current state, including one lost to a concurrent writer.
type TransitionError struct {
	Resource string
	ID       int64
	From     string
	To       string
	Reason   string
	Cause    error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %d cannot change from %q to %q", e.Resource, e.ID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	} else if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Cause
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewStorage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case pqUniqueViolation:
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case pqForeignKeyViolation:
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	case pqNotNullViolation, pqCheckViolation:
		return &ValidationError{Message: fmt.Sprintf("%s (code: %s)", message, code)}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// ClassifyDBError turns a driver error into one of the typed errors above.
// Errors that are not *pq.Error become a StorageError for op.
func ClassifyDBError(op, message string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation, pqForeignKeyViolation, pqNotNullViolation, pqCheckViolation:
			return WrapDBError(message, string(pqErr.Code))
		}
	}

	return NewStorage(op, err)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation is true for field validation failures and duplicate keys.
func IsValidation(err error) bool {
	var validation *ValidationError
	var unique *UniqueViolationError
	return errors.As(err, &validation) || errors.As(err, &unique)
}

func IsUniqueViolation(err error) bool {
	var target *UniqueViolationError
	return errors.As(err, &target)
}

func IsForeignKeyViolation(err error) bool {
	var target *ForeignKeyViolationError
	return errors.As(err, &target)
}

func IsTransition(err error) bool {
	var target *TransitionError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
