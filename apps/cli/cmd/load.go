package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/envrx/packages/envfile"
	"github.com/abdul-hamid-achik/envrx/packages/store"
)

var (
	loadFormatFlag  string
	loadToStoreFlag bool
	loadExportFlag  bool
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Parse an environment file and print or store its entries",
	Long: `Parse a .env, JSON, YAML, or TOML file and print its entries.

With --to-store, every entry is pushed into the database: new keys are
inserted, existing keys are updated. With --export, every entry is
applied to the process environment.

Examples:
  envrx load .env
  envrx load config.yaml --format yaml
  envrx load .env --export
  envrx -d sqlite://envs.db -c myapp load .env --to-store`,
	Args: cobra.ExactArgs(1),
	RunE: loadCommand,
}

func init() {
	loadCmd.Flags().StringVar(&loadFormatFlag, "format", "", "File format: dotenv, json, yaml, or toml (default: by extension)")
	loadCmd.Flags().BoolVar(&loadToStoreFlag, "to-store", false, "Push entries into the database")
	loadCmd.Flags().BoolVar(&loadExportFlag, "export", false, "Apply entries to the process environment")
}

func loadCommand(cmd *cobra.Command, args []string) error {
	vars, err := loadEnvFile(args[0])
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()

	if loadExportFlag {
		for key, value := range vars {
			_ = os.Setenv(key, value) // only fails for invalid key names
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries from %s\n", green("exported"), len(vars), args[0])
	}

	if loadToStoreFlag {
		env, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := pushVars(cmd.Context(), env, vars); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries from %s\n", green("stored"), len(vars), args[0])
	}

	if loadExportFlag || loadToStoreFlag {
		return nil
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", cyan(key), vars[key])
	}
	return nil
}

func loadEnvFile(path string) (map[string]string, error) {
	if loadFormatFlag != "" {
		return envfile.LoadFormat(path, envfile.Format(loadFormatFlag))
	}
	return envfile.Load(path)
}

// envSetter is the slice of the facade the push helpers need.
type envSetter interface {
	SetEnv(ctx context.Context, key, value string) error
	UpdateEnv(ctx context.Context, key, value string) error
}

// pushVars inserts each entry, falling back to update for keys that
// already exist.
func pushVars(ctx context.Context, env envSetter, vars map[string]string) error {
	for key, value := range vars {
		err := env.SetEnv(ctx, key, value)
		if errors.Is(err, store.ErrDuplicateKey) {
			err = env.UpdateEnv(ctx, key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
