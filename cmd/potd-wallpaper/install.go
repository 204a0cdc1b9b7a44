// ABOUTME: Cobra commands for registering and removing the periodic scheduler unit.
// ABOUTME: systemd user timers on Linux, launchd agents on macOS.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/menhera-org/potd-wallpaper/internal/scheduler"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the periodic wallpaper change with the OS scheduler",
	Long: `Copies the executable into place, registers a scheduler unit that runs
it at the configured interval, and performs one immediate pass.`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the periodic scheduler registration",
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	sched, err := scheduler.Detect()
	if err != nil {
		return err
	}

	interval := time.Duration(globalConfig.Schedule.Interval)
	if err := sched.Install(cmd.Context(), interval); err != nil {
		return fmt.Errorf("failed to install scheduler unit: %w", err)
	}
	logger.Info("scheduler unit installed", "interval", interval)

	// Change the wallpaper right away instead of waiting for the first fire.
	return runRun(cmd, args)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	sched, err := scheduler.Detect()
	if err != nil {
		return err
	}
	if err := sched.Uninstall(cmd.Context()); err != nil {
		return fmt.Errorf("failed to remove scheduler unit: %w", err)
	}
	logger.Info("scheduler unit removed")
	return nil
}
