package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a stored environment variable",
	Long: `Remove an environment variable from the database.

Fails if the key does not exist.

Examples:
  envrx delete API_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: deleteCommand,
}

func deleteCommand(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.DeleteEnv(cmd.Context(), args[0]); err != nil {
		return err
	}

	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", red("deleted"), args[0])
	return nil
}
