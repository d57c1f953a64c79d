package vorpalerr

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestToStatus_RoundTripsKind(t *testing.T) {
	err := NewIntegrityError("digest mismatch")
	st := ToStatus(err)

	if got, want := FromStatus(st), KindIntegrityError; got != want {
		t.Fatalf("FromStatus = %v, want %v", got, want)
	}
}

func TestKindOf_DefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindInternalError {
		t.Fatalf("KindOf(plain) = %v, want KindInternalError", got)
	}
}

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := Wrap(KindTransientIO, "push archive", cause)

	if !errors.Is(wrapped, cause) {
		t.Fatal("errors.Is did not find the wrapped cause")
	}
	if KindOf(wrapped) != KindTransientIO {
		t.Fatalf("KindOf = %v, want KindTransientIO", KindOf(wrapped))
	}
}

func TestKindCode(t *testing.T) {
	cases := map[Kind]codes.Code{
		KindValidationError: codes.InvalidArgument,
		KindNotFound:        codes.NotFound,
		KindConflict:        codes.AlreadyExists,
		KindTransientIO:     codes.Unavailable,
		KindIntegrityError:  codes.FailedPrecondition,
		KindStepFailure:     codes.Aborted,
		KindInternalError:   codes.Internal,
	}
	for kind, want := range cases {
		if got := kind.Code(); got != want {
			t.Errorf("%v.Code() = %v, want %v", kind, got, want)
		}
	}
}
