package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "robotctl",
		Short:         "robotctl: drive the service robot from the terminal",
		Long:          "robotctl connects to the robot backend over its websocket link, sends motion sequences and door commands, and keeps saved routes in a local cache synchronized with the backend.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSeqCmd(),
		newSendCmd(app),
		newStopCmd(app),
		newDoorCmd(app),
		newStatusCmd(app),
		newRouteCmd(app),
		newPositionCmd(app),
		newDriveCmd(app),
	)

	return rootCmd
}
