package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	stepDelimiter  = ":"
	fieldDelimiter = ","
)

// Sequence is an ordered list of steps; index order is execution order.
type Sequence []Step

// Encode renders steps as the colon-terminated wire string. An empty sequence
// encodes to "".
func Encode(steps Sequence) string {
	if len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	for _, step := range steps {
		b.WriteString(strconv.Itoa(int(step.Action)))
		b.WriteString(fieldDelimiter)
		b.WriteString(formatMagnitude(step.Magnitude))
		b.WriteString(stepDelimiter)
	}

	return b.String()
}

// Decode parses a wire string. It never fails: unparsable magnitudes become NaN
// and unparsable action codes become ActionInvalid, so callers must Validate
// before executing.
func Decode(wire string) Sequence {
	segments := strings.Split(wire, stepDelimiter)
	steps := make(Sequence, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}

		code, magnitude, found := strings.Cut(segment, fieldDelimiter)
		step := Step{Action: parseAction(code), Magnitude: math.NaN()}
		if found {
			step.Magnitude = parseMagnitude(magnitude)
		}
		steps = append(steps, step)
	}

	return steps
}

// CompressConsecutive merges a FORWARD or BACKWARD step into the previous output
// step when both carry the same action. Only adjacent runs collapse.
func CompressConsecutive(steps Sequence) Sequence {
	out := make(Sequence, 0, len(steps))
	for _, step := range steps {
		if step.Action.Linear() && len(out) > 0 && out[len(out)-1].Action == step.Action {
			out[len(out)-1].Magnitude += step.Magnitude
			continue
		}
		out = append(out, step)
	}

	return out
}

// Reverse returns the return trip: steps in reverse order with each action
// replaced by its opposite. Magnitudes are kept as-is.
func Reverse(steps Sequence) Sequence {
	out := make(Sequence, len(steps))
	for i, step := range steps {
		out[len(steps)-1-i] = Step{Action: step.Action.Opposite(), Magnitude: step.Magnitude}
	}

	return out
}

// Validate reports the first step that must not be executed.
func (s Sequence) Validate() error {
	for i, step := range s {
		if !step.Valid() {
			return fmt.Errorf("%w: step %d (%s)", ErrMalformedSequence, i+1, step)
		}
	}

	return nil
}

func (s Sequence) String() string {
	return Encode(s)
}

func parseAction(raw string) Action {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value != math.Trunc(value) || value < math.MinInt32 || value > math.MaxInt32 {
		return ActionInvalid
	}

	return Action(int(value))
}

func parseMagnitude(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}

	return value
}

func formatMagnitude(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
