package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/artpar/dockerize/internal/core/environment"
	"github.com/artpar/dockerize/internal/shell/scaffold"
	"github.com/artpar/dockerize/internal/shell/workspace"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	successMessage = "✅ Laravel application successfully dockerized!"
	nextStepHint   = `📋 Run "docker-compose up -d" to start the application`
)

// NewRootCmd builds the command tree. All project files are accessed through
// fsys.
func NewRootCmd(fsys afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "dockerize",
		Short:         "Generate Docker configuration for a Laravel application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to config file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (text, json)")

	root.AddCommand(
		newGenerateCmd(fsys),
		newDetectCmd(fsys),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the per-invocation logger.
func setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, &CommandError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}

	logger := SetupLogger(cfg, cmd.ErrOrStderr()).With(
		"run_id", uuid.NewString(),
		"command", cmd.Name(),
	)
	return cfg, logger, nil
}

// =============================================================================
// generate
// =============================================================================

func newGenerateCmd(fsys afero.Fs) *cobra.Command {
	var (
		overrides environment.Overrides
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Detect the project environment and write Docker configuration",
		Example: `  dockerize generate
  dockerize generate --php 8.3 --database pgsql --queue redis
  dockerize generate --dir ./my-app --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, fsys, overrides, force)
		},
	}

	f := cmd.Flags()
	f.StringVar(&overrides.PHP, "php", "", "PHP version (e.g. 8.2)")
	f.StringVar(&overrides.Node, "node", "", "Node.js version (e.g. 20)")
	f.StringVar(&overrides.Database, "database", "", "Database (mysql, pgsql, sqlite)")
	f.StringVar(&overrides.Cache, "cache", "", "Cache driver (file, redis, memcached)")
	f.StringVar(&overrides.Queue, "queue", "", "Queue driver (sync, redis, database)")
	f.BoolVar(&force, "force", false, "Overwrite existing files without warning")
	f.String("dir", "", "Laravel project directory (default \".\")")

	return cmd
}

func runGenerate(cmd *cobra.Command, fsys afero.Fs, overrides environment.Overrides, force bool) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ws := workspace.New(fsys, cfg.Project.Root)
	logger.Info("dockerizing project", "root", ws.Root(), "version", Version)

	result, err := scaffold.New(ws, logger).Run(scaffold.Options{
		Overrides: overrides,
		Force:     force,
		Paths:     cfg.Paths(),
	})
	if err != nil {
		if errors.Is(err, environment.ErrInvalidOverride) {
			return &CommandError{Op: "generate", Err: err, ExitCode: ExitConfigError}
		}
		return &CommandError{Op: "generate", Err: err, ExitCode: ExitWriteError}
	}

	logger.Debug("environment resolved",
		"php", result.Environment.PHPVersion,
		"database", result.Environment.Database,
		"dependencies", result.Environment.Dependencies.Strings(),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successMessage)
	fmt.Fprintln(out, nextStepHint)
	return nil
}

// =============================================================================
// detect
// =============================================================================

func newDetectCmd(fsys afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Print the detected project environment as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			env := scaffold.New(workspace.New(fsys, cfg.Project.Root), logger).Detect()

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(env); err != nil {
				return &CommandError{Op: "detect", Err: err, ExitCode: ExitWriteError}
			}
			return enc.Close()
		},
	}
	cmd.Flags().String("dir", "", "Laravel project directory (default \".\")")
	return cmd
}

// =============================================================================
// version
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dockerize %s (built %s)\n", Version, BuildTime)
		},
	}
}
