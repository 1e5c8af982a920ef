package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/robotctl/internal/application"
	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

const driveHelp = `commands:
  f <units> | b <units>   drive forward or backward
  l | r                   turn left or right
  s                       stop now
  from <place> | to <place>
  save | move | return | reset | delete
  door <1|2|3> [open|close]
  retry | dismiss         answer a reconnect prompt
  status | help | quit
places: starting, table1, table2, table3`

// lockedWriter serializes output from the prompt loop and the monitor goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, format, args...)
}

type linePrompter struct {
	out *lockedWriter
}

func (p linePrompter) ShowReconnectPrompt() {
	p.out.printf("robot not connected: type retry or dismiss\n")
}

func newDriveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drive",
		Short: "Drive the robot interactively and record routes",
		Long:  "drive opens a session with the robot and reads commands from stdin.\n\n" + driveHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrive(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runDrive(ctx context.Context, app *app, in io.Reader, out io.Writer) error {
	w := &lockedWriter{w: out}
	controller, gate := app.newController(linePrompter{out: w})

	if err := app.connect(ctx, controller); err != nil {
		w.printf("warning: %v\n", err)
	}
	if place, err := controller.SyncOrigin(ctx); err != nil {
		w.printf("warning: %v\n", err)
	} else {
		w.printf("origin: %s\n", place.Label())
	}

	wasLocked := false
	monitor := application.NewHealthMonitor(app.link, gate, controller.LockoutWait, application.HealthMonitorConfig{
		Interval:  app.cfg.HealthInterval,
		ClockTick: app.cfg.ClockTick,
		OnCountdown: func(wait int) {
			if wait > 0 {
				wasLocked = true
				return
			}
			if wasLocked {
				wasLocked = false
				w.printf("ready\n")
			}
		},
		Logger: app.logger,
	})
	monitor.Start()
	defer func() { _ = monitor.Stop() }()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		command, err := application.ParseDriveCommand(scanner.Text())
		if err != nil {
			w.printf("error: %v\n", err)
			continue
		}
		if command.Kind == application.DriveQuit {
			return nil
		}

		if err := dispatchDrive(ctx, controller, command, w); err != nil {
			w.printf("error: %v\n", err)
		}
	}

	return scanner.Err()
}

func dispatchDrive(ctx context.Context, controller *application.Controller, command application.DriveCommand, w *lockedWriter) error {
	switch command.Kind {
	case application.DriveUnspecified:
		return nil
	case application.DriveMotion:
		if err := controller.Issue(ctx, command.Action, command.Units); err != nil {
			return err
		}
		if command.Action == domain.ActionStop {
			w.printf("stopped\n")
			return nil
		}
		w.printf("sent %s, wait %ds\n", command.Action, controller.LockoutWait())
	case application.DriveFrom:
		err := controller.SetOrigin(ctx, command.Place)
		w.printf("origin: %s\n", command.Place.Label())
		if err != nil {
			return err
		}
	case application.DriveTo:
		if err := controller.SetDestination(command.Place); err != nil {
			return err
		}
		w.printf("destination: %s\n", command.Place.Label())
	case application.DriveSave:
		err := controller.SaveRoute(ctx)
		if errors.Is(err, application.ErrRemoteSync) {
			w.printf("saved locally, backend not updated\n")
		}
		if err != nil {
			return err
		}
		w.printf("route saved, origin now %s\n", controller.Origin().Label())
	case application.DriveMove:
		if err := controller.MoveSaved(ctx); err != nil {
			return err
		}
		w.printf("moving, wait %ds\n", controller.LockoutWait())
	case application.DriveReturn:
		if err := controller.ReturnSaved(ctx); err != nil {
			return err
		}
		w.printf("returning, wait %ds\n", controller.LockoutWait())
	case application.DriveReset:
		if err := controller.Reset(ctx); err != nil {
			return err
		}
		w.printf("recorded steps cleared\n")
	case application.DriveDelete:
		err := controller.DeleteRoute(ctx)
		if errors.Is(err, application.ErrRemoteSync) {
			w.printf("deleted locally, backend not updated\n")
		}
		if err != nil {
			return err
		}
		w.printf("route deleted\n")
	case application.DriveDoor:
		if err := controller.OpenDoor(ctx, command.Door, command.DoorAction); err != nil {
			return err
		}
		w.printf("door %d: %s\n", command.Door, command.DoorAction)
	case application.DriveRetry:
		connected, err := controller.Retry(ctx)
		if connected {
			w.printf("connected\n")
			return nil
		}
		if err != nil {
			return err
		}
		w.printf("still not connected\n")
	case application.DriveDismiss:
		controller.Dismiss()
	case application.DriveStatus:
		snapshot := controller.Snapshot()
		w.printf("link %s, gateway %t, motor %t, battery %s\n",
			snapshot.Session.Phase, snapshot.Session.GatewayHealthy, snapshot.Session.MotorControllerHealthy, snapshot.Session.Battery)
		w.printf("%s -> %s, recorded %q, wait %ds\n",
			snapshot.Origin.Label(), snapshot.Destination.Label(), domain.Encode(snapshot.Steps), snapshot.LockoutWait)
	case application.DriveHelp:
		w.printf("%s\n", driveHelp)
	}

	return nil
}
