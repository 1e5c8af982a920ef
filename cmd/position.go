package cmd

import (
	"fmt"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

func newPositionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Read or set the robot's current position on the backend",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the backend's current position",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				position, err := app.remote.CurrentPosition(cmd.Context())
				if err != nil {
					return fmt.Errorf("current position: %w", err)
				}
				if place, err := domain.ParsePlace(position); err == nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", place, place.Label())
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), position)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <place>",
			Short: "Record the robot's current position on the backend",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				place, err := domain.ParsePlace(args[0])
				if err != nil {
					return err
				}
				if err := app.remote.UpdateCurrentPosition(cmd.Context(), place); err != nil {
					return fmt.Errorf("update position: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Position set to %s\n", place)
				return nil
			},
		},
	)

	return cmd
}
