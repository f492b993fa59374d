package gateway

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingNextURL          = errors.New("a next_url is required to return from the gateway")
	ErrMissingNotificationCode = errors.New("the gateway did not return a valid notification code")
	ErrInvalidOrder            = errors.New("invalid order")
)

// Kind groups errors by how a caller should react to them.
type Kind string

const (
	KindPrecondition  Kind = "precondition"
	KindTransient     Kind = "transient"
	KindAuth          Kind = "auth"
	KindUnrecoverable Kind = "unrecoverable"
)

// Error is a gateway failure tagged with its Kind.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether repeating the call may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransient
}

func Transient(message string, cause error) *Error {
	return &Error{Kind: KindTransient, Message: message, Cause: cause}
}

// IsRetryable reports whether err, or anything it wraps, is a retryable gateway error.
func IsRetryable(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Retryable()
}

// DeliveryError is raised when a checkout could not be delivered and the gateway
// answer is not something the store can show to the buyer. It keeps everything an
// operator needs to investigate.
type DeliveryError struct {
	Message     string
	StoreID     int
	OrderNumber int
	StatusCode  int
	Sent        map[string]any
	Errors      []string
}

func (e *DeliveryError) Error() string {
	msg := fmt.Sprintf("%s (store %d, order %d, status %d)", e.Message, e.StoreID, e.OrderNumber, e.StatusCode)
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return msg
}

// Kind lets DeliveryError be handled alongside *Error.
func (e *DeliveryError) Kind() Kind {
	return KindUnrecoverable
}
