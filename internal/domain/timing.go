package domain

import (
	"math"
	"time"
)

const (
	// TurnDuration is the fixed time a LEFT or RIGHT turn takes.
	TurnDuration = 5 * time.Second
	// LockoutMargin covers command dispatch and stop latency.
	LockoutMargin = 2 * time.Second

	unitDuration = time.Second
	maxDuration  = time.Duration(math.MaxInt64)
)

// StepDuration predicts how long the robot needs to execute one step.
func StepDuration(action Action, magnitude float64) time.Duration {
	switch {
	case action.Turn():
		return TurnDuration
	case action.Linear():
		if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) || magnitude <= 0 {
			return 0
		}
		if magnitude >= float64(maxDuration)/float64(unitDuration) {
			return maxDuration
		}
		return time.Duration(magnitude * float64(unitDuration))
	default:
		return 0
	}
}

func SequenceDuration(steps Sequence) time.Duration {
	var total time.Duration
	for _, step := range steps {
		total = addSaturating(total, StepDuration(step.Action, step.Magnitude))
	}

	return total
}

// LockoutDeadline is the earliest time a new motion may be issued after steps.
func LockoutDeadline(now time.Time, steps Sequence) time.Time {
	return now.Add(addSaturating(SequenceDuration(steps), LockoutMargin))
}

// addSaturating adds two non-negative durations, clamping at the largest
// representable duration.
func addSaturating(a, b time.Duration) time.Duration {
	if a > maxDuration-b {
		return maxDuration
	}

	return a + b
}
