package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_TransientKindIsRetryable(t *testing.T) {
	err := New(KindTransient, "fetch", errors.New("timeout"))
	if !err.Retryable {
		t.Error("expected a transient error to be retryable")
	}
}

func TestNew_NonTransientKindsAreNotRetryable(t *testing.T) {
	for _, k := range []Kind{KindDeterministic, KindSchema, KindInvariant, KindExhausted, KindInternal} {
		err := New(k, "op", errors.New("boom"))
		if err.Retryable {
			t.Errorf("expected kind %s to not be retryable", k)
		}
	}
}

func TestError_IncludesOpKindAndUnderlyingMessage(t *testing.T) {
	err := New(KindSchema, "parse_response", errors.New("missing field"))
	want := "parse_response: schema_violation: missing field"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_OmitsUnderlyingMessageWhenNil(t *testing.T) {
	err := New(KindExhausted, "daily_cap", nil)
	want := "daily_cap: resource_exhaustion"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrap_ReturnsUnderlyingError(t *testing.T) {
	cause := errors.New("root cause")
	err := New(KindInternal, "op", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIs_MatchesDirectKind(t *testing.T) {
	err := New(KindInvariant, "op", nil)
	if !Is(err, KindInvariant) {
		t.Error("expected Is to match the error's own kind")
	}
	if Is(err, KindSchema) {
		t.Error("expected Is to not match a different kind")
	}
}

func TestIs_MatchesThroughWrappingChain(t *testing.T) {
	base := New(KindTransient, "dial", errors.New("connection refused"))
	wrapped := fmt.Errorf("calling provider: %w", base)

	if !Is(wrapped, KindTransient) {
		t.Error("expected Is to unwrap through fmt.Errorf's %w chain")
	}
}

func TestIs_FalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), KindInternal) {
		t.Error("expected Is to return false for an error with no Kind")
	}
}

func TestIs_FalseForNilError(t *testing.T) {
	if Is(nil, KindInternal) {
		t.Error("expected Is to return false for a nil error")
	}
}
