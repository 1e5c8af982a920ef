package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Step struct {
	Action    Action
	Magnitude float64
}

// NewStep builds a step, rejecting negative and non-finite magnitudes.
func NewStep(action Action, magnitude float64) (Step, error) {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) || magnitude < 0 {
		return Step{}, fmt.Errorf("%w: %v", ErrInvalidUnits, magnitude)
	}

	return Step{Action: action, Magnitude: magnitude}, nil
}

// ParseUnits parses a user-entered magnitude.
func ParseUnits(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidUnits)
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnits, raw)
	}

	return value, nil
}

func (s Step) Valid() bool {
	if s.Action == ActionInvalid {
		return false
	}

	return !math.IsNaN(s.Magnitude) && !math.IsInf(s.Magnitude, 0) && s.Magnitude >= 0
}

func (s Step) String() string {
	return s.Action.String() + "(" + formatMagnitude(s.Magnitude) + ")"
}
