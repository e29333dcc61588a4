package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <key> <value>",
	Short: "Change the value of a stored environment variable",
	Long: `Change the value of an existing environment variable in the database.

Fails if the key does not exist; use "envrx set" to create it.

Examples:
  envrx update API_KEY newsecret`,
	Args: cobra.ExactArgs(2),
	RunE: updateCommand,
}

func updateCommand(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	key, value := args[0], args[1]
	if err := env.UpdateEnv(cmd.Context(), key, value); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("updated"), key)
	return nil
}
