package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepDuration(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		magnitude float64
		want      time.Duration
	}{
		{name: "left is fixed", action: ActionLeft, magnitude: 0, want: 5 * time.Second},
		{name: "right ignores magnitude", action: ActionRight, magnitude: 9, want: 5 * time.Second},
		{name: "stop is instant", action: ActionStop, magnitude: 4, want: 0},
		{name: "forward uses magnitude", action: ActionForward, magnitude: 3, want: 3 * time.Second},
		{name: "backward fractional", action: ActionBackward, magnitude: 1.5, want: 1500 * time.Millisecond},
		{name: "negative clamps", action: ActionForward, magnitude: -2, want: 0},
		{name: "nan is zero", action: ActionForward, magnitude: math.NaN(), want: 0},
		{name: "unknown action is zero", action: Action(7), magnitude: 3, want: 0},
		{name: "huge magnitude saturates", action: ActionForward, magnitude: 1e10, want: time.Duration(math.MaxInt64)},
		{name: "infinite is zero", action: ActionBackward, magnitude: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepDuration(tt.action, tt.magnitude))
		})
	}
}

func TestSequenceDurationIsAdditive(t *testing.T) {
	a := Sequence{{ActionForward, 3}, {ActionLeft, 0}}
	b := Sequence{{ActionStop, 0}, {ActionBackward, 2.25}, {Action(9), 10}}

	joined := append(append(Sequence{}, a...), b...)

	assert.Equal(t, SequenceDuration(a)+SequenceDuration(b), SequenceDuration(joined))
	assert.Equal(t, 10250*time.Millisecond, SequenceDuration(joined))
	assert.Zero(t, SequenceDuration(nil))
}

func TestLockoutDeadlineAddsSafetyMargin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(2*time.Second), LockoutDeadline(now, nil))
	assert.Equal(t, now.Add(12*time.Second), LockoutDeadline(now, Sequence{{ActionForward, 5}, {ActionLeft, 0}}))
}

func TestLockoutRejectsMotionUntilDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var lockout Lockout

	require.NoError(t, lockout.Check(now, ActionForward), "zero value is expired")

	lockout.Arm(now, Sequence{{ActionForward, 3}})

	err := lockout.Check(now.Add(1*time.Second), ActionLeft)
	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, 4, locked.Wait)
	assert.Equal(t, "please wait 4 seconds", err.Error())

	err = lockout.Check(now.Add(4900*time.Millisecond), ActionBackward)
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, 1, locked.Wait)

	assert.NoError(t, lockout.Check(now.Add(5*time.Second), ActionForward))
}

func TestSequenceDurationSaturates(t *testing.T) {
	steps := Sequence{{ActionForward, 9e9}, {ActionBackward, 9e9}, {ActionLeft, 0}}

	assert.Equal(t, time.Duration(math.MaxInt64), SequenceDuration(steps))

	movement := BuildMovement(Sequence{{ActionForward, 1e12}})
	require.Len(t, movement.Steps, 1)
	assert.Greater(t, movement.Steps[0].Seconds, 0.0)
}

func TestLockoutHoldsForHugeMagnitude(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	magnitude, err := ParseUnits("1e10")
	require.NoError(t, err)

	var lockout Lockout
	lockout.Arm(now, Sequence{{ActionForward, magnitude}})
	assert.True(t, lockout.Until().After(now))

	err = lockout.Check(now.Add(time.Second), ActionLeft)
	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	assert.Greater(t, locked.Wait, 0)
	assert.NoError(t, lockout.Check(now.Add(time.Second), ActionStop))
}

func TestLockoutNeverBlocksStop(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var lockout Lockout
	lockout.Arm(now, Sequence{{ActionForward, 30}})

	assert.NoError(t, lockout.Check(now, ActionStop))
	assert.Error(t, lockout.Check(now, ActionForward))
}

func TestLockoutWaitRoundsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var lockout Lockout
	lockout.Arm(now, Sequence{{ActionForward, 0.2}})

	assert.Equal(t, 3, lockout.Wait(now))
	assert.Equal(t, 1, lockout.Wait(now.Add(2*time.Second)))
	assert.Equal(t, 0, lockout.Wait(now.Add(3*time.Second)))
	assert.Equal(t, time.Duration(0), lockout.Remaining(now.Add(time.Hour)))
}
