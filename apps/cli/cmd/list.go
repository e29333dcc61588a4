package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored environment variables",
	Long: `List every environment variable in the database collection.

Examples:
  envrx list
  envrx -d mongodb://localhost:27017/myapp -c envs list`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	all, err := env.AllEnv(cmd.Context())
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", cyan(key), all[key])
	}
	return nil
}
