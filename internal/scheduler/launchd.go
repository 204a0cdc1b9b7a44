// ABOUTME: launchd agent for periodic macOS invocation.
// ABOUTME: Installs the binary under ~/Library/potd-wallpaper and loads a LaunchAgent plist.
package scheduler

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const launchdAgentLabel = "org.menhera.potd-wallpaper"

const launchdPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>org.menhera.potd-wallpaper</string>
    <key>ProgramArguments</key>
    <array>
        <string>%EXEC%</string>
        <string>run</string>
    </array>
    <key>StartInterval</key>
    <integer>%INTERVAL%</integer>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`

type launchdScheduler struct {
	home string
	exe  string
	run  runner
}

func (l *launchdScheduler) binPath() string {
	return filepath.Join(l.home, "Library", "potd-wallpaper", "potd-wallpaper")
}

func (l *launchdScheduler) plistPath() string {
	return filepath.Join(l.home, "Library", "LaunchAgents", launchdAgentLabel+".plist")
}

func (l *launchdScheduler) Install(ctx context.Context, interval time.Duration) error {
	if err := installExecutable(l.exe, l.binPath()); err != nil {
		return err
	}

	plist := strings.ReplaceAll(launchdPlistTemplate, "%EXEC%", l.binPath())
	plist = strings.ReplaceAll(plist, "%INTERVAL%", strconv.Itoa(int(interval.Seconds())))
	if err := writeUnitFile(l.plistPath(), plist); err != nil {
		return err
	}

	// A stale agent from a prior install must be unloaded before load.
	_ = l.run(ctx, "launchctl", "unload", l.plistPath())
	return l.run(ctx, "launchctl", "load", l.plistPath())
}

func (l *launchdScheduler) Uninstall(ctx context.Context) error {
	// Best-effort: the agent may never have been loaded.
	_ = l.run(ctx, "launchctl", "unload", l.plistPath())

	for _, path := range []string{l.plistPath(), l.binPath()} {
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	return nil
}
