package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

func newSendCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <wire>",
		Short: "Send a motion sequence such as 1,3:3,0:1,2:",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := domain.Decode(args[0])
			if len(steps) == 0 {
				return domain.ErrEmptySequence
			}
			if err := steps.Validate(); err != nil {
				return err
			}

			controller, _ := app.newController(nil)
			if err := app.connect(cmd.Context(), controller); err != nil {
				return err
			}

			wire := domain.Encode(steps)
			if err := app.link.SendSequence(cmd.Context(), wire); err != nil {
				return fmt.Errorf("send sequence: %w", err)
			}
			if err := app.link.SendAck(cmd.Context(), wire); err != nil {
				app.logger.Warn("sequence ack failed", "seq", wire, "error", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sent %s (%d steps, about %gs)\n",
				wire, len(steps), domain.SequenceDuration(steps).Seconds())
			return nil
		},
	}
}

func newStopCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the robot immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, _ := app.newController(nil)
			if err := app.connect(cmd.Context(), controller); err != nil {
				return err
			}
			if err := controller.Issue(cmd.Context(), domain.ActionStop, ""); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Stop sent")
			return nil
		},
	}
}

func newDoorCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "door <1|2|3> [open|close]",
		Short: "Open or close one of the robot's doors",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || !domain.ValidDoor(index) {
				return fmt.Errorf("%w: %q", domain.ErrInvalidDoor, args[0])
			}
			action := domain.DoorOpen
			if len(args) == 2 {
				action = domain.DoorAction(strings.ToLower(args[1]))
			}
			if !action.Valid() {
				return fmt.Errorf("%w: action %q", domain.ErrInvalidDoor, args[1])
			}

			controller, _ := app.newController(nil)
			if err := app.connect(cmd.Context(), controller); err != nil {
				return err
			}
			if err := controller.OpenDoor(cmd.Context(), index, action); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Door %d: %s\n", index, action)
			return nil
		},
	}
}
