package errors

import (
	"fmt"
	"testing"
)

func TestValidationErrorUnwrap(t *testing.T) {
	err := Wrap(NewValidationError("contracts[0].strike", -5.0, "must be positive"), "simulate")

	if !Is(err, ErrInputValidation) {
		t.Error("expected wrapped ValidationError to match ErrInputValidation")
	}

	var ve *ValidationError
	if !As(err, &ve) {
		t.Fatal("expected As to find ValidationError")
	}
	if ve.Field != "contracts[0].strike" {
		t.Errorf("Field = %s, want contracts[0].strike", ve.Field)
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("bad float")

	tests := []struct {
		name   string
		err    *ConfigError
		target error
	}{
		{"no cause", NewConfigError("simulation.offsets", "must not be empty", nil), ErrConfigInvalid},
		{"with cause", NewConfigError("ROISIM_RISK_FREE_RATE", "not a number", cause), cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.target) {
				t.Errorf("Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}
