package exceptions

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type transitionInput struct {
	TargetKind  string `validate:"required,oneof=guia item"`
	NewStatus   string `validate:"required"`
	ClaimNumber string `validate:"required_if=NewStatus glosado"`
	TargetID    string
	ItemID      string `validate:"omitempty,eqfield=TargetID"`
}

func TestFormatFirstValidationError(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name     string
		input    transitionInput
		expected string
	}{
		{
			name:     "oneof lists the allowed values",
			input:    transitionInput{TargetKind: "lote", NewStatus: "pago"},
			expected: "target_kind must be one of [guia, item]",
		},
		{
			name:     "required_if names the condition",
			input:    transitionInput{TargetKind: "guia", NewStatus: "glosado"},
			expected: "claim_number is required when new_status is glosado",
		},
		{
			name:     "eqfield names the other field",
			input:    transitionInput{TargetKind: "item", NewStatus: "pago", TargetID: "I1", ItemID: "I2"},
			expected: "item_id must match target_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			assert.Equal(t, tt.expected, FormatFirstValidationError(err))
		})
	}

	assert.Equal(t, "failed to process your request", FormatFirstValidationError(nil))
}
