package market

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected mutations.
var (
	ErrSignedOut  = errors.New("not signed in")
	ErrNotOwner   = errors.New("listing belongs to another user")
	ErrInProgress = errors.New("another operation is in progress")
)

// User-facing messages attached to failed operations.
const (
	MsgAddFailed    = "Could not add new item at this time, please try again later"
	MsgUpdateFailed = "Could not update the item at this time, please try again later"
	MsgGeneric      = "Oops something wrong, please try again later"
	MsgMissingData  = "Please fill all data"
	MsgLogIn        = "Please log in before adding new items"
)

// OpError is returned by Editor when an operation fails. Message is safe to
// show to the user; Err is the underlying cause.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// UserMessage returns the message to display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return MsgGeneric
}
