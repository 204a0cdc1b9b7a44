// ABOUTME: systemd user service and timer for periodic Linux invocation.
// ABOUTME: Installs the binary under ~/.local/bin and enables a user timer.
package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

const systemdServiceTemplate = `[Unit]
Description=Picture of the Day wallpaper changer
After=network-online.target
After=graphical-session.target

[Service]
Type=oneshot
ExecStart=%EXEC% run

[Install]
WantedBy=default.target
`

const systemdTimerTemplate = `[Unit]
Description=Periodic Picture of the Day wallpaper change

[Timer]
OnBootSec=2min
OnUnitActiveSec=%INTERVAL%
Persistent=true

[Install]
WantedBy=timers.target
`

type systemdScheduler struct {
	home string
	exe  string
	run  runner
}

func (s *systemdScheduler) binPath() string {
	return filepath.Join(s.home, ".local", "bin", "potd-wallpaper")
}

func (s *systemdScheduler) unitDir() string {
	return filepath.Join(s.home, ".local", "lib", "systemd", "user")
}

func (s *systemdScheduler) servicePath() string {
	return filepath.Join(s.unitDir(), "potd-wallpaper.service")
}

func (s *systemdScheduler) timerPath() string {
	return filepath.Join(s.unitDir(), "potd-wallpaper.timer")
}

func (s *systemdScheduler) Install(ctx context.Context, interval time.Duration) error {
	if err := installExecutable(s.exe, s.binPath()); err != nil {
		return err
	}

	service := strings.ReplaceAll(systemdServiceTemplate, "%EXEC%", s.binPath())
	if err := writeUnitFile(s.servicePath(), service); err != nil {
		return err
	}

	timer := strings.ReplaceAll(systemdTimerTemplate, "%INTERVAL%", interval.String())
	if err := writeUnitFile(s.timerPath(), timer); err != nil {
		return err
	}

	if err := s.run(ctx, "systemctl", "--user", "daemon-reload"); err != nil {
		return err
	}
	return s.run(ctx, "systemctl", "--user", "enable", "--now", "potd-wallpaper.timer")
}

func (s *systemdScheduler) Uninstall(ctx context.Context) error {
	// Best-effort: the timer may never have been installed.
	_ = s.run(ctx, "systemctl", "--user", "disable", "--now", "potd-wallpaper.timer")

	for _, path := range []string{s.timerPath(), s.servicePath(), s.binPath()} {
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	return s.run(ctx, "systemctl", "--user", "daemon-reload")
}
