package channel

import (
	"fmt"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestStatusCodeRoundTrip(t *testing.T) {
	for _, code := range []StatusCode{StatusSystemError, StatusInvalidSystem, StatusFailure, StatusIgnored, StatusSuccess, StatusYielded, StatusHolding} {
		got, err := StatusCodeFromI32(code.ToI32())
		assert(t, err == nil, "unexpected error: %s", err)
		assert(t, got == code, "want %d got %d", code, got)
	}
}

func TestStatusCodeRejectsOutOfRange(t *testing.T) {
	_, err := StatusCodeFromI32(99)
	assert(t, err != nil, "expected an out-of-range status code to be rejected")
}

func TestIsContinuation(t *testing.T) {
	for _, code := range []StatusCode{StatusSuccess, StatusYielded, StatusHolding} {
		assert(t, code.IsContinuation(), "%d should be a continuation", code)
	}
	for _, code := range []StatusCode{StatusSystemError, StatusInvalidSystem, StatusFailure, StatusIgnored} {
		assert(t, !code.IsContinuation(), "%d should not be a continuation", code)
	}
}
