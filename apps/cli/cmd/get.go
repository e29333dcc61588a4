package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value of a stored environment variable",
	Long: `Get the value of an environment variable from the database.

Examples:
  envrx get API_KEY
  envrx -d sqlite://envs.db -c myapp get API_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: getCommand,
}

func getCommand(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	value, err := env.GetEnv(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
