package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"invalid", invalidParam("frequency", "bad"), KindInvalidParameter},
		{"wrapped", fmt.Errorf("outer: %w", numericInstability(3, 0)), KindNumericInstability},
		{"canceled", context.Canceled, KindResourceExceeded},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), KindResourceExceeded},
		{"cancelled helper", cancelled(context.Canceled), KindResourceExceeded},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf=%q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := invalidParam("cutoff_freq", "must be > 0: %v", -1)
	if got, want := err.Error(), "cutoff_freq: must be > 0: -1"; got != want {
		t.Fatalf("Error()=%q, want %q", got, want)
	}

	inner := errors.New("plan failed")
	wrapped := internalError(inner)
	if !errors.Is(wrapped, inner) {
		t.Fatal("internal error should unwrap to its cause")
	}
	if !IsKind(wrapped, KindInternal) {
		t.Fatalf("IsKind(internal) = false for %v", wrapped)
	}
}

func TestNumericInstabilityCarriesIndex(t *testing.T) {
	err := numericInstability(1234, 0)
	if got := err.Error(); got != "filter output diverged at sample 1234 (0)" {
		t.Fatalf("unexpected message %q", got)
	}
}
