/*
main.go - Application entry point

PURPOSE:
  The planner binary: serves the HTTP API and runs one-shot reports, checks
  and exports against the same configured store.

COMMANDS:
  serve      Start the HTTP API (with file watcher and report scheduler)
  report     Print utilization, conflicts and costs
  check      Run integrity and validation checks; exit 1 on findings
  export     Write the report as an Excel workbook
  snapshots  List or prune saved versions (sqlite backend)
  config     Write a default planner.yaml

CONFIGURATION:
  Defaults, then --config (or ./planner.yaml), then environment:
  PLANNER_PORT, PLANNER_DATA, PLANNER_BACKEND. See config/loader.go.

EXAMPLES:
  # Serve the JSON document in the working directory
  ./planner serve

  # Serve with snapshot history
  PLANNER_BACKEND=sqlite ./planner serve

  # Report on a demo scenario without touching the store
  ./planner report --scenario overlap

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration
*/
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/config"
)

const (
	Version = "0.1.0"
	appName = "planner"
)

// errIssuesFound makes `check` exit non-zero without printing an error.
var errIssuesFound = errors.New("issues found")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Resource allocation planner",
		Long: `Planner tracks people, teams, departments and the projects they are
allocated to. It reports utilization and overallocation per resource,
the cost of every project against its budget, and structural problems
in the membership data such as circular team/department references.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(g),
		reportCmd(g),
		checkCmd(g),
		exportCmd(g),
		snapshotsCmd(g),
		configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// load reads the configuration and installs the configured logger as the
// slog default.
func (g *globals) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.NewLoader(slog.Default()).Load(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger := config.NewLogger(cfg.Log)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
