package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/envrx/packages/envrx"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	databaseFlag   string
	collectionFlag string
	noColorFlag    bool
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "envrx",
	Short: "Environment variables from files and databases.",
	Long: `envrx loads environment variables from .env, JSON, YAML, or TOML
files and from a backing database (MongoDB, Redis, SQLite, PostgreSQL),
and lets you manage the stored variables from the command line.

The database is selected by the connection string scheme:
  mongodb://...   document store
  redis://...     key-value store
  postgres://...  relational store
  sqlite://...    relational store (local file)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			color.NoColor = true
		}
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "d", "", "Database connection string (default $ENVRX_DATABASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&collectionFlag, "collection", "c", "", "Collection or table name (default $ENVRX_COLLECTION)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// envOptions builds the facade options shared by all commands.
func envOptions() []envrx.Option {
	var opts []envrx.Option
	if verboseFlag {
		if logger, err := zap.NewDevelopment(); err == nil {
			opts = append(opts, envrx.WithLogger(logger))
		}
	}
	return opts
}

// openEnv connects to the configured database and returns a ready facade.
// The caller must Close it.
func openEnv(ctx context.Context) (*envrx.Env, error) {
	spec := databaseFlag
	if spec == "" {
		spec = os.Getenv("ENVRX_DATABASE_URL")
	}
	collection := collectionFlag
	if collection == "" {
		collection = os.Getenv("ENVRX_COLLECTION")
	}
	if spec == "" {
		return nil, fmt.Errorf("no database configured: use --database or set ENVRX_DATABASE_URL")
	}

	opts := append(envOptions(), envrx.WithStore(spec, collection))
	env, err := envrx.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := env.Connect(ctx); err != nil {
		return nil, err
	}
	return env, nil
}
