// ABOUTME: Cobra command for interactive feed configuration.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate feed settings.
package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/menhera-org/potd-wallpaper/internal/config"
	"github.com/menhera-org/potd-wallpaper/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the feed interactively",
	Long:  "Interactive wizard to set the feed URL and change interval.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		config.DefaultFeedURL,
		cfg.Feed.URL,
		time.Duration(cfg.Schedule.Interval),
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	feedURL, interval := final.Result()
	cfg.Feed.URL = feedURL
	if interval > 0 {
		cfg.Schedule.Interval = config.Duration(interval)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Config saved to %s\n", config.GetConfigPath())
	return nil
}
