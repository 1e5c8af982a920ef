package cmd

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/bnema/robotctl/internal/application"
	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

func newSeqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seq",
		Short: "Work with motion sequences offline",
	}

	cmd.AddCommand(newSeqInspectCmd())

	return cmd
}

type seqStepOutput struct {
	Action    string   `json:"action"`
	Code      int      `json:"code"`
	Magnitude *float64 `json:"magnitude"`
}

type seqInspectOutput struct {
	Wire       string          `json:"wire"`
	Steps      []seqStepOutput `json:"steps"`
	Compressed string          `json:"compressed"`
	Reversed   string          `json:"reversed"`
	Seconds    float64         `json:"seconds"`
	Valid      bool            `json:"valid"`
	Problem    string          `json:"problem,omitempty"`
}

func newSeqInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <wire>",
		Short: "Decode a wire sequence and show its compressed and reversed forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := application.InspectSequence(args[0])

			if asJSON {
				out := seqInspectOutput{
					Wire:       args[0],
					Steps:      make([]seqStepOutput, 0, len(report.Steps)),
					Compressed: domain.Encode(report.Compressed),
					Reversed:   domain.Encode(report.Reversed),
					Seconds:    report.Duration,
					Valid:      report.Valid,
					Problem:    report.Problem,
				}
				for _, step := range report.Steps {
					entry := seqStepOutput{Action: step.Action.String(), Code: int(step.Action)}
					if !math.IsNaN(step.Magnitude) && !math.IsInf(step.Magnitude, 0) {
						magnitude := step.Magnitude
						entry.Magnitude = &magnitude
					}
					out.Steps = append(out.Steps, entry)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "steps: %d\n", len(report.Steps))
			for i, step := range report.Steps {
				_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, step)
			}
			_, _ = fmt.Fprintf(w, "compressed: %s\n", domain.Encode(report.Compressed))
			_, _ = fmt.Fprintf(w, "reversed: %s\n", domain.Encode(report.Reversed))
			_, _ = fmt.Fprintf(w, "duration: %gs\n", report.Duration)
			if !report.Valid {
				_, _ = fmt.Fprintf(w, "invalid: %s\n", report.Problem)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
