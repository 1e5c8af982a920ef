package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/spf13/cobra"
)

type routeOutput struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Seq     string  `json:"seq"`
	Steps   int     `json:"steps"`
	Seconds float64 `json:"seconds"`
}

func toRouteOutputs(routes []domain.Route) []routeOutput {
	out := make([]routeOutput, 0, len(routes))
	for _, route := range routes {
		out = append(out, routeOutput{
			From:    string(route.Origin),
			To:      string(route.Destination),
			Seq:     domain.Encode(route.Sequence),
			Steps:   len(route.Sequence),
			Seconds: domain.SequenceDuration(route.Sequence).Seconds(),
		})
	}
	return out
}

func newRouteCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Manage saved routes between places",
	}

	cmd.AddCommand(
		newRouteListCmd(app),
		newRouteShowCmd(app),
		newRouteSaveCmd(app),
		newRouteDeleteCmd(app),
	)

	return cmd
}

type routeFlags struct {
	from string
	to   string
}

func (f *routeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Origin place (starting, table1, table2, table3)")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination place (starting, table1, table2, table3)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func (f *routeFlags) places() (domain.Place, domain.Place, error) {
	origin, err := domain.ParsePlace(f.from)
	if err != nil {
		return "", "", fmt.Errorf("--from: %w", err)
	}
	destination, err := domain.ParsePlace(f.to)
	if err != nil {
		return "", "", fmt.Errorf("--to: %w", err)
	}
	return origin, destination, nil
}

func newRouteListCmd(app *app) *cobra.Command {
	var remote bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached routes, or the backend's routes with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if remote {
				routes, err := app.routes.ListRemote(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(routes)
				}
				if len(routes) == 0 {
					_, _ = fmt.Fprintln(w, "No remote routes.")
					return nil
				}
				for _, route := range routes {
					_, _ = fmt.Fprintf(w, "%s -> %s %s\n", route.Origin, route.Destination, route.MovementJSON)
				}
				return nil
			}

			routes, err := app.routes.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(toRouteOutputs(routes))
			}
			if len(routes) == 0 {
				_, _ = fmt.Fprintln(w, "No saved routes.")
				return nil
			}
			for _, route := range toRouteOutputs(routes) {
				_, _ = fmt.Fprintf(w, "%s -> %s %s (%d steps, %gs)\n", route.From, route.To, route.Seq, route.Steps, route.Seconds)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "List routes stored on the backend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newRouteShowCmd(app *app) *cobra.Command {
	var flags routeFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved route and its return trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin, destination, err := flags.places()
			if err != nil {
				return err
			}

			route, err := app.routes.Load(cmd.Context(), origin, destination)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s -> %s\n", origin.Label(), destination.Label())
			_, _ = fmt.Fprintf(w, "seq: %s\n", domain.Encode(route.Sequence))
			_, _ = fmt.Fprintf(w, "return: %s\n", domain.Encode(domain.Reverse(route.Sequence)))
			_, _ = fmt.Fprintf(w, "duration: %gs\n", domain.SequenceDuration(route.Sequence).Seconds())
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newRouteSaveCmd(app *app) *cobra.Command {
	var flags routeFlags
	var wire string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a sequence as the route between two places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin, destination, err := flags.places()
			if err != nil {
				return err
			}

			steps := domain.Decode(wire)
			if err := steps.Validate(); err != nil {
				return err
			}

			route := domain.Route{Origin: origin, Destination: destination, Sequence: steps}
			err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Saving route...", func(ctx context.Context) error {
				return app.routes.Save(ctx, route)
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s -> %s (%d steps)\n", origin, destination, len(steps))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&wire, "seq", "", "Wire sequence, e.g. 1,3:3,0:1,2:")
	_ = cmd.MarkFlagRequired("seq")

	return cmd
}

func newRouteDeleteCmd(app *app) *cobra.Command {
	var flags routeFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a saved route locally and on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin, destination, err := flags.places()
			if err != nil {
				return err
			}

			err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Deleting route...", func(ctx context.Context) error {
				return app.routes.Delete(ctx, origin, destination)
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s -> %s\n", origin, destination)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
