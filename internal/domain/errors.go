// Package domain defines the typed errors shared by the store, the chat
// service, and the HTTP layer. Handlers map these to status codes; the core
// never inspects transport concerns.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrChatNotFound   = errors.New("chat not found")
	ErrNotAMember     = errors.New("user does not belong to this chat")
	ErrAlreadyMember  = errors.New("user is already a member of this chat")
	ErrPasswordHash   = errors.New("password hashing failed")
)

// StorageError wraps a failure from the durable store. It is never swallowed
// by the core except on the best-effort broadcast path.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err with the failing operation. Returns nil for a nil err so
// call sites can wrap unconditionally.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
