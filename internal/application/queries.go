package application

import (
	"github.com/bnema/robotctl/internal/domain"
)

// Snapshot is a read-only view of the controller and the link it drives.
type Snapshot struct {
	Origin            domain.Place
	Destination       domain.Place
	Steps             domain.Sequence
	LockoutWait       int
	Session           domain.SessionState
	PromptOutstanding bool
}

// SequenceReport describes a wire sequence without sending it.
type SequenceReport struct {
	Steps      domain.Sequence
	Compressed domain.Sequence
	Reversed   domain.Sequence
	Duration   float64
	Valid      bool
	Problem    string
}

func InspectSequence(wire string) SequenceReport {
	steps := domain.Decode(wire)
	report := SequenceReport{
		Steps:      steps,
		Compressed: domain.CompressConsecutive(steps),
		Reversed:   domain.Reverse(steps),
		Duration:   domain.SequenceDuration(steps).Seconds(),
		Valid:      true,
	}
	if err := steps.Validate(); err != nil {
		report.Valid = false
		report.Problem = err.Error()
	}

	return report
}
