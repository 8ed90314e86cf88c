package product

import (
	"errors"
	"fmt"
)

// Kind classifies a catalog failure for callers on the other side of the RPC boundary.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindStorageConflict Kind = "storage_conflict"
	KindUnclassified    Kind = "unclassified"
	KindForbidden       Kind = "forbidden"
)

// Error is the structured error returned by the catalog service.
// Message is safe to send to callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// InvalidInput returns an error for a payload that fails a semantic constraint.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an error for a product id with no matching row.
func NotFound(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("product with id %d not found", id)}
}

// StorageConflict wraps a storage-level rejection.
func StorageConflict(message string, cause error) *Error {
	return &Error{Kind: KindStorageConflict, Message: message, Err: cause}
}

// Unclassified wraps any storage failure that fits no other kind.
func Unclassified(message string, cause error) *Error {
	return &Error{Kind: KindUnclassified, Message: message, Err: cause}
}

// KindOf returns the kind of err, or KindUnclassified for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}
