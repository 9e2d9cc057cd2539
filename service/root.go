// Package service contains the inkwell command line: the HTTP server and
// database maintenance commands.
package service

import (
	"fmt"
	"io"
	"log/slog"

	"inkwell/app/config"
	"inkwell/app/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "inkwell",
		Short: "A small blog with categories and comments",
		Long: `inkwell serves a blog of posts, categories and reader comments,
backed by an embedded badger database.

Example usage:
  inkwell init                 # Create an empty database
  inkwell seed posts.yaml      # Load posts from a YAML file
  inkwell serve                # Serve the blog on :8080
  inkwell backup               # Write a database backup`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		c.newServeCommand(),
		c.newInitCommand(),
		c.newCleanCommand(),
		c.newBackupCommand(),
		c.newRestoreCommand(),
		c.newSeedCommand(),
		c.newDeletePostCommand(),
		newVersionCommand(),
	)
	return root
}

// initConfig loads configuration and builds the logger.
func (c *cli) initConfig(logOut io.Writer) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.InitLoggerWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log
	log.Debug("configuration loaded",
		"storage_path", cfg.Storage.Path,
		"in_memory", cfg.Storage.InMemory,
	)
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell version %s\n", version)
		},
	}
}
