package response

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	errNotFound := NewError(404, "session not found")

	wrapped := fmt.Errorf("load: %w", errNotFound)
	if !errors.Is(wrapped, errNotFound) {
		t.Fatal("wrapped error does not match")
	}
	if errors.Is(NewError(404, "handoff not found"), errNotFound) {
		t.Fatal("different message matched")
	}
	if errors.Is(NewError(400, "session not found"), errNotFound) {
		t.Fatal("different code matched")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "direct", err: NewError(403, "forbidden"), want: 403},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", NewError(502, "upstream")), want: 502},
		{name: "plain", err: errors.New("boom"), want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err, 500); got != tt.want {
				t.Fatalf("StatusCode = %d, want %d", got, tt.want)
			}
		})
	}
}
