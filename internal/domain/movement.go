package domain

// Movement is the seconds-based summary pushed to the remote route store.
type Movement struct {
	Steps []MovementStep
}

type MovementStep struct {
	Action  Action
	Seconds float64
}

// BuildMovement compresses steps and converts each to its predicted duration.
func BuildMovement(steps Sequence) Movement {
	compressed := CompressConsecutive(steps)
	movement := Movement{Steps: make([]MovementStep, 0, len(compressed))}
	for _, step := range compressed {
		movement.Steps = append(movement.Steps, MovementStep{
			Action:  step.Action,
			Seconds: StepDuration(step.Action, step.Magnitude).Seconds(),
		})
	}

	return movement
}
