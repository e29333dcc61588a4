package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/envrx/packages/envfile"
)

// syncDebounceDelay collapses bursts of write events from editors that
// save in multiple steps.
const syncDebounceDelay = 300 * time.Millisecond

var syncWatchFlag bool

var syncCmd = &cobra.Command{
	Use:   "sync <file>",
	Short: "Push an environment file into the database",
	Long: `Push every entry of an environment file into the database: new keys
are inserted, existing keys are updated.

With --watch, the file is watched and re-synced on every change until
interrupted.

Examples:
  envrx -d sqlite://envs.db -c myapp sync .env
  envrx -d redis://localhost:6379 -c myapp sync .env --watch`,
	Args: cobra.ExactArgs(1),
	RunE: syncCommand,
}

func init() {
	syncCmd.Flags().BoolVarP(&syncWatchFlag, "watch", "w", false, "Re-sync on file changes")
}

func syncCommand(cmd *cobra.Command, args []string) error {
	file := args[0]

	env, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	syncOnce := func() error {
		vars, err := envfile.Load(file)
		if err != nil {
			return err
		}
		if err := pushVars(cmd.Context(), env, vars); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d entries from %s\n", len(vars), file)
		return nil
	}

	if err := syncOnce(); err != nil {
		return err
	}
	if !syncWatchFlag {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file on save
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", file)

	var debounceTimer *time.Timer
	target := filepath.Clean(file)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(syncDebounceDelay, func() {
				if err := syncOnce(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "sync failed: %v\n", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)

		case <-cmd.Context().Done():
			return nil
		}
	}
}
