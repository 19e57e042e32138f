package feedback

import (
	"errors"
	"fmt"
	"testing"

	"github.com/agreementchain/agreements/pkg/agreement"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"revert", errors.New("execution reverted: Error - Not authorized"), "Not authorized"},
		{"wrapped revert", fmt.Errorf("estimate gas: %w", errors.New("execution reverted: Error - Already voted")), "Already voted"},
		{"no marker", errors.New("connection refused"), FallbackMessage},
		{"empty reason", errors.New("Error - "), FallbackMessage},
		{"validation", agreement.ValidateCondition("", ""), "Please provide both key and value for the condition."},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.expected {
				t.Errorf("Reason(%v): expected %q, got %q", tt.err, tt.expected, got)
			}
		})
	}
}
