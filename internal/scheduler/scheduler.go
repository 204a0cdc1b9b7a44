// ABOUTME: Registration of the periodic-invocation unit with the OS scheduler.
// ABOUTME: systemd user timers on Linux, launchd agents on macOS.
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// ErrUnsupported means no scheduling facility is known for this platform.
var ErrUnsupported = errors.New("no scheduler available for this platform")

// Scheduler registers and removes the periodic unit that invokes `run`.
type Scheduler interface {
	// Install copies the current executable into place and registers a
	// unit firing at the given interval.
	Install(ctx context.Context, interval time.Duration) error
	// Uninstall deregisters the unit and removes installed files.
	Uninstall(ctx context.Context) error
}

// runner executes an external command, abstracted for tests.
type runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}

// Detect returns the scheduler for the running OS.
func Detect() (Scheduler, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	switch runtime.GOOS {
	case "linux":
		return &systemdScheduler{home: home, exe: exe, run: execRunner}, nil
	case "darwin":
		return &launchdScheduler{home: home, exe: exe, run: execRunner}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOOS)
	}
}

// installExecutable copies the running binary to dst, creating parent
// directories as needed.
func installExecutable(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read executable: %w", err)
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		return fmt.Errorf("failed to install executable: %w", err)
	}
	return nil
}

func writeUnitFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
