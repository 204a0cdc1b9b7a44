// ABOUTME: Cobra command showing the resolved target, config, and last applied record.
// ABOUTME: Read-only; never touches the network or mutates cache state.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/menhera-org/potd-wallpaper/internal/cache"
	"github.com/menhera-org/potd-wallpaper/internal/desktop"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(14)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved desktop target and last applied wallpaper",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	target := dimStyle.Render("unsupported")
	if setter, err := desktop.Detect(); err == nil {
		target = setter.Name()
	}

	dir, err := globalConfig.CacheDir()
	if err != nil {
		return err
	}

	fmt.Println(labelStyle.Render("Target:") + target)
	fmt.Println(labelStyle.Render("Feed URL:") + globalConfig.Feed.URL)
	fmt.Println(labelStyle.Render("Cache dir:") + dir)

	store, err := cache.NewStore(dir)
	if err != nil {
		return err
	}
	rec, err := store.Load()
	switch {
	case errors.Is(err, cache.ErrCorrupt):
		fmt.Println(labelStyle.Render("Applied:") + warnStyle.Render("record corrupt, will self-heal on next run"))
	case err != nil:
		return err
	case rec == nil:
		fmt.Println(labelStyle.Render("Applied:") + dimStyle.Render("never"))
	default:
		fmt.Println(labelStyle.Render("Applied:") + rec.LastAppliedDate)
		fmt.Println(labelStyle.Render("Image:") + rec.ImagePath)
		fmt.Println(labelStyle.Render("Updated:") + rec.UpdatedAt.Local().Format(time.RFC1123))
	}
	return nil
}
