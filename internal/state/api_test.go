package state

import (
	"errors"
	"testing"

	"go-salepoint/internal/apiclient"
)

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unauthorized", &apiclient.Error{Status: 401, Message: "nope"}, false},
		{"client error", &apiclient.Error{Status: 404, Message: "gone"}, false},
		{"server error", &apiclient.Error{Status: 503, Message: "down"}, true},
		{"transport error", errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.err); got != tt.want {
				t.Fatalf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
