package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		steps Sequence
		wire  string
	}{
		{
			name:  "forward turn forward",
			steps: Sequence{{ActionForward, 3}, {ActionLeft, 0}, {ActionForward, 2}},
			wire:  "1,3:3,0:1,2:",
		},
		{
			name:  "fractional magnitude",
			steps: Sequence{{ActionBackward, 0.5}, {ActionStop, 0}},
			wire:  "2,0.5:0,0:",
		},
		{
			name:  "unknown code passes through",
			steps: Sequence{{Action(9), 1}},
			wire:  "9,1:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wire, Encode(tt.steps))
			assert.Equal(t, tt.steps, Decode(tt.wire))
		})
	}
}

func TestEncodeDecodeEmpty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
	assert.Equal(t, "", Encode(Sequence{}))
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode(":::"))
}

func TestDecodeAcceptsMissingTrailingDelimiter(t *testing.T) {
	assert.Equal(t, Sequence{{ActionForward, 3}}, Decode("1,3"))
}

func TestDecodeMalformedSegmentsYieldSentinels(t *testing.T) {
	steps := Decode("x,3:1,abc:4:")
	require.Len(t, steps, 3)

	assert.Equal(t, ActionInvalid, steps[0].Action)
	assert.Equal(t, 3.0, steps[0].Magnitude)

	assert.Equal(t, ActionForward, steps[1].Action)
	assert.True(t, math.IsNaN(steps[1].Magnitude))

	assert.Equal(t, ActionRight, steps[2].Action)
	assert.True(t, math.IsNaN(steps[2].Magnitude))

	require.ErrorIs(t, steps.Validate(), ErrMalformedSequence)
}

func TestDecodeRejectsOutOfRangeActionCodes(t *testing.T) {
	steps := Decode("1e30,1:-1e12,2:1e3,1:")
	require.Len(t, steps, 3)

	assert.Equal(t, ActionInvalid, steps[0].Action)
	assert.Equal(t, ActionInvalid, steps[1].Action)
	assert.Equal(t, Action(1000), steps[2].Action)
}

func TestValidateAllowsUnknownIntegerCodes(t *testing.T) {
	assert.NoError(t, Decode("7,1:1,2:").Validate())
	assert.ErrorIs(t, Decode("1.5,2:").Validate(), ErrMalformedSequence)
}

func TestCompressConsecutiveMergesOnlyAdjacentRuns(t *testing.T) {
	in := Sequence{{ActionForward, 3}, {ActionForward, 2}, {ActionLeft, 0}, {ActionForward, 1}}

	out := CompressConsecutive(in)

	assert.Equal(t, Sequence{{ActionForward, 5}, {ActionLeft, 0}, {ActionForward, 1}}, out)
	assert.Equal(t, 3.0, in[0].Magnitude, "input must not be mutated")
}

func TestCompressConsecutiveKeepsTurnsAndDirectionChanges(t *testing.T) {
	in := Sequence{
		{ActionLeft, 0}, {ActionLeft, 0},
		{ActionBackward, 1}, {ActionBackward, 1}, {ActionForward, 1},
		{ActionStop, 0}, {ActionStop, 0},
	}

	out := CompressConsecutive(in)

	assert.Equal(t, Sequence{
		{ActionLeft, 0}, {ActionLeft, 0},
		{ActionBackward, 2}, {ActionForward, 1},
		{ActionStop, 0}, {ActionStop, 0},
	}, out)
}

func TestReverseMapsOppositesInReverseOrder(t *testing.T) {
	steps := Sequence{{ActionForward, 3}, {ActionLeft, 0}, {ActionForward, 2}}

	reversed := Reverse(steps)

	assert.Equal(t, Sequence{{ActionBackward, 2}, {ActionRight, 0}, {ActionBackward, 3}}, reversed)
	assert.Equal(t, "2,2:4,0:2,3:", Encode(reversed))
}

func TestReverseIsAnInvolution(t *testing.T) {
	steps := Sequence{
		{ActionForward, 1.25}, {ActionRight, 0}, {ActionStop, 0},
		{ActionBackward, 4}, {ActionLeft, 0},
	}

	assert.Equal(t, steps, Reverse(Reverse(steps)))
}

func TestReversePassesUnknownCodesThrough(t *testing.T) {
	assert.Equal(t, Sequence{{Action(8), 2}, {ActionBackward, 1}}, Reverse(Sequence{{ActionForward, 1}, {Action(8), 2}}))
}

func TestActionOppositeTable(t *testing.T) {
	tests := []struct {
		action Action
		want   Action
	}{
		{ActionForward, ActionBackward},
		{ActionBackward, ActionForward},
		{ActionLeft, ActionRight},
		{ActionRight, ActionLeft},
		{ActionStop, ActionStop},
		{Action(42), Action(42)},
		{ActionInvalid, ActionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Opposite())
		})
	}
}

func TestNewStepRejectsInvalidMagnitudes(t *testing.T) {
	for _, magnitude := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := NewStep(ActionForward, magnitude)
		assert.ErrorIs(t, err, ErrInvalidUnits)
	}

	step, err := NewStep(ActionForward, 0)
	require.NoError(t, err)
	assert.Equal(t, Step{ActionForward, 0}, step)
}

func TestParseUnits(t *testing.T) {
	value, err := ParseUnits(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, value)

	for _, raw := range []string{"", "abc", "-3", "NaN", "Inf"} {
		_, err := ParseUnits(raw)
		assert.ErrorIs(t, err, ErrInvalidUnits, raw)
	}
}
