// Package vorpalerr implements the error taxonomy shared by the Agent,
// Registry, and Worker: a small set of typed errors, each with a fixed
// gRPC status code, so a caller across a process boundary can recover
// the original failure category from a status response.
package vorpalerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind identifies a taxonomy member.
type Kind int

const (
	KindInternalError Kind = iota
	KindValidationError
	KindNotFound
	KindConflict
	KindTransientIO
	KindIntegrityError
	KindStepFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidationError:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindTransientIO:
		return "TransientIO"
	case KindIntegrityError:
		return "IntegrityError"
	case KindStepFailure:
		return "StepFailure"
	default:
		return "InternalError"
	}
}

// Code returns the gRPC status code a Kind maps to.
func (k Kind) Code() codes.Code {
	switch k {
	case KindValidationError:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.AlreadyExists
	case KindTransientIO:
		return codes.Unavailable
	case KindIntegrityError:
		return codes.FailedPrecondition
	case KindStepFailure:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// Error is a taxonomy member carrying a human-readable message and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewValidationError(message string) *Error { return newErr(KindValidationError, message) }
func NewNotFound(message string) *Error        { return newErr(KindNotFound, message) }
func NewConflict(message string) *Error        { return newErr(KindConflict, message) }
func NewTransientIO(message string) *Error     { return newErr(KindTransientIO, message) }
func NewIntegrityError(message string) *Error  { return newErr(KindIntegrityError, message) }
func NewStepFailure(message string) *Error     { return newErr(KindStepFailure, message) }
func NewInternalError(message string) *Error   { return newErr(KindInternalError, message) }

// Wrap attaches kind/message context to cause while preserving it for
// errors.Is/As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind of err, defaulting to KindInternalError for
// errors outside this package's taxonomy.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindInternalError
}

// ToStatus converts err into a gRPC status error carrying its taxonomy
// code, so a server handler can simply `return nil, vorpalerr.ToStatus(err)`.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	var ve *Error
	if errors.As(err, &ve) {
		return status.Error(ve.Kind.Code(), ve.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// FromStatus recovers a Kind from a gRPC status error received from a
// remote peer, for callers that branch on failure category.
func FromStatus(err error) Kind {
	st, ok := status.FromError(err)
	if !ok {
		return KindInternalError
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return KindValidationError
	case codes.NotFound:
		return KindNotFound
	case codes.AlreadyExists:
		return KindConflict
	case codes.Unavailable:
		return KindTransientIO
	case codes.FailedPrecondition:
		return KindIntegrityError
	case codes.Aborted:
		return KindStepFailure
	default:
		return KindInternalError
	}
}
