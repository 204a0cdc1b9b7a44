// ABOUTME: Cobra command for a single pipeline pass.
// ABOUTME: The scheduled unit invokes this; it is also the root default.
package main

import (
	"github.com/spf13/cobra"

	"github.com/menhera-org/potd-wallpaper/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch today's image and apply it once",
	Long: `Performs one fetch→decide→apply pass: resolves the desktop environment,
checks the feed, and updates the wallpaper unless today's image is
already applied. Exits 0 on success and on benign no-ops.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := app.New(globalConfig, logger)
	if err != nil {
		return err
	}
	logger.Debug("resolved desktop target", "target", a.Target())
	return a.Run(cmd.Context())
}
