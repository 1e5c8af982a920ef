package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	statusadapter "github.com/bnema/robotctl/internal/adapters/render/status"
	"github.com/bnema/robotctl/internal/application"
	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Endpoint        string        `json:"endpoint"`
	Phase           string        `json:"phase"`
	ConnectionID    string        `json:"connection_id,omitempty"`
	HelloSent       bool          `json:"hello_sent"`
	Gateway         bool          `json:"gateway"`
	MotorController bool          `json:"motor_controller"`
	Battery         string        `json:"battery"`
	Origin          string        `json:"origin"`
	Routes          []routeOutput `json:"routes"`
}

func newStatusCmd(app *app) *cobra.Command {
	var wait time.Duration
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Connect to the robot and show link health, battery and saved routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, _ := app.newController(nil)

			statusSeen := make(chan struct{}, 1)
			controller.Observe(func(msg domain.InboundMessage) {
				if msg.Type != "status" {
					return
				}
				select {
				case statusSeen <- struct{}{}:
				default:
				}
			})

			if err := app.connect(cmd.Context(), controller); err != nil {
				app.logger.Warn("robot link unavailable", "error", err)
			} else if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-statusSeen:
				case <-timer.C:
				case <-cmd.Context().Done():
				}
				timer.Stop()
			}

			if _, err := controller.SyncOrigin(cmd.Context()); err != nil {
				app.logger.Warn("current position unavailable", "error", err)
			}

			routes, err := app.routes.List(cmd.Context())
			if err != nil {
				return err
			}

			snapshot := controller.Snapshot()
			if asJSON {
				return writeStatusJSON(cmd, app, snapshot, routes)
			}

			rendered, err := app.statusRenderer(statusadapter.View{Snapshot: snapshot, Routes: routes}, statusadapter.RenderOptions{
				Endpoint: app.wsEndpoint,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 3*time.Second, "How long to wait for the first status report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeStatusJSON(cmd *cobra.Command, app *app, snapshot application.Snapshot, routes []domain.Route) error {
	session := snapshot.Session
	out := statusOutput{
		Endpoint:        app.wsEndpoint,
		Phase:           string(session.Phase),
		ConnectionID:    session.ConnectionID,
		HelloSent:       session.HelloSent,
		Gateway:         session.Connected() && session.GatewayHealthy,
		MotorController: session.Connected() && session.MotorControllerHealthy,
		Battery:         string(session.Battery),
		Origin:          string(snapshot.Origin),
		Routes:          toRouteOutputs(routes),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
