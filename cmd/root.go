// Package cmd wires the railbook command line: the interactive app on the
// bare command and one subcommand per booking flow.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"railbook-cli/applog"
	"railbook-cli/config"
	"railbook-cli/service"
	"railbook-cli/store"
	"railbook-cli/tui"
)

const appName = "railbook"

// BuildInfo is stamped into the binary at release time.
type BuildInfo struct {
	Version string
	Commit  string
}

type cli struct {
	build      BuildInfo
	configPath string

	cfg      config.Config
	store    *store.Store
	app      *service.App
	clock    service.Clock
	log      *slog.Logger
	closeLog func() error
}

// Execute runs the command line and returns the process exit code.
func Execute(build BuildInfo, args []string, stdout io.Writer, stderr io.Writer) int {
	root := NewRootCmd(build)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}
	return 0
}

func NewRootCmd(build BuildInfo) *cobra.Command {
	c := &cli{build: build}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Train ticket booking from the terminal",
		Long: `Search trains, pick seats on the coach map and keep your tickets, all from the terminal.
Run without a command to open the interactive app.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(tui.New(c.app), tea.WithAltScreen()).Run()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a JSONC config file (default $"+config.EnvConfig+")")

	rootCmd.AddCommand(
		c.versionCmd(),
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.searchCmd(),
		c.seatsCmd(),
		c.bookCmd(),
		c.ticketsCmd(),
		c.cancelCmd(),
		c.printCmd(),
		c.historyCmd(),
		c.dashboardCmd(),
		c.profileCmd(),
		c.settingsCmd(),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DataDir, cfg.SessionTTL.Duration)
	if err != nil {
		return fmt.Errorf("opening data directory: %w", err)
	}
	logger, closeLog, err := applog.New(cfg.Log, st.CacheDir())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.store = st
	c.log = logger
	c.closeLog = closeLog
	if c.clock == nil {
		c.clock = service.SystemClock()
	}
	c.app = service.New(st, cfg, logger, c.clock)

	if cfg.DemoUser {
		if err := c.app.Auth.EnsureDemoUser(); err != nil {
			return err
		}
	}
	logger.Debug("command started", slog.String("command", cmd.CommandPath()))
	return nil
}

func (c *cli) now() time.Time {
	return c.clock.Now()
}

func (c *cli) teardown() error {
	if c.closeLog == nil {
		return nil
	}
	err := c.closeLog()
	c.closeLog = nil
	return err
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of railbook",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, c.build.Version)
			if c.build.Commit != "none" && c.build.Commit != "" {
				fmt.Fprintf(out, " (%s)", c.build.Commit)
			}
			fmt.Fprintln(out)
		},
	}
}
