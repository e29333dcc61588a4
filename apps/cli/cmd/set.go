package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a new environment variable",
	Long: `Store a new environment variable in the database.

Fails if the key already exists; use "envrx update" to change it.

Examples:
  envrx set API_KEY secret123
  envrx -d redis://localhost:6379 -c myapp set API_KEY secret123`,
	Args: cobra.ExactArgs(2),
	RunE: setCommand,
}

func setCommand(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	key, value := args[0], args[1]
	if err := env.SetEnv(cmd.Context(), key, value); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("stored"), key)
	return nil
}
