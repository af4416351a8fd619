package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/marcelocantos/sshell/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath string
		line    string
		code    int
		app     *cli.App
	)

	// Set up context with cancellation on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	setup := func(cmd *cobra.Command) (*cli.App, error) {
		var err error
		app, err = cli.Setup(cfgPath, cmd.ErrOrStderr())
		return app, err
	}

	root := &cobra.Command{
		Use:           "sshell",
		Short:         "A small Unix shell",
		Long:          cli.Usage(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("command") {
				code = cli.RunLine(cmd.Context(), app, line)
				return nil
			}
			code = cli.RunRepl(cmd.Context(), app, os.Stdin)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/sshell/config.yaml)")
	root.Flags().StringVarP(&line, "command", "c", "", "run one command line and exit")

	var (
		showN    int
		showJSON bool
	)
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the command history log",
	}
	historyShow := &cobra.Command{
		Use:   "show",
		Short: "Print recent history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			code = cli.RunHistoryShow(cmd.OutOrStdout(), app.Config.History.Path, showN, showJSON)
			return nil
		},
	}
	historyShow.Flags().IntVarP(&showN, "lines", "n", 20, "number of entries")
	historyShow.Flags().BoolVar(&showJSON, "json", false, "print entries as JSON")
	historyVerify := &cobra.Command{
		Use:   "verify",
		Short: "Check the history hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			code = cli.RunHistoryVerify(cmd.OutOrStdout(), app.Config.History.Path)
			return nil
		},
	}
	historyCmd.AddCommand(historyShow, historyVerify)

	builtinsCmd := &cobra.Command{
		Use:   "builtins",
		Short: "List builtin commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			code = cli.RunBuiltins(app.Builtins, cmd.OutOrStdout())
			return nil
		},
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the run_line tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			code = cli.RunMCP(app, version, cmd.ErrOrStderr())
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sshell %s\n", version)
		},
	}

	root.AddCommand(historyCmd, builtinsCmd, mcpCmd, versionCmd)

	err := root.ExecuteContext(ctx)
	if app != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sshell: %v\n", err)
		return 1
	}
	return code
}
