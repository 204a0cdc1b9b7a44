// ABOUTME: Desktop-environment detection and the wallpaper setter capability.
// ABOUTME: One concrete setter per supported environment, resolved once per run.
package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrUnsupported means no known desktop environment was detected.
	ErrUnsupported = errors.New("unsupported desktop environment")
	// ErrApplyFailed means the environment's native mechanism reported failure.
	ErrApplyFailed = errors.New("failed to apply wallpaper")
)

// Setter applies an image file as the desktop background through the
// environment's native mechanism.
type Setter interface {
	// Name identifies the resolved environment, e.g. "gnome".
	Name() string
	// Apply points the desktop background at the image file.
	Apply(ctx context.Context, imagePath string) error
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

// Detect probes the running OS and session markers and returns the
// matching setter. It is called once per run.
func Detect() (Setter, error) {
	return detect(runtime.GOOS, os.Getenv("XDG_CURRENT_DESKTOP"))
}

func detect(goos, currentDesktop string) (Setter, error) {
	switch goos {
	case "darwin":
		return &osascriptSetter{run: execRunner}, nil
	case "linux":
		de := strings.ToLower(currentDesktop)
		switch {
		case strings.Contains(de, "gnome"):
			return &gsettingsSetter{name: "gnome", schema: "org.gnome.desktop.background", darkKey: true, run: execRunner}, nil
		case strings.Contains(de, "cinnamon"):
			return &gsettingsSetter{name: "cinnamon", schema: "org.cinnamon.desktop.background", run: execRunner}, nil
		case currentDesktop == "":
			return nil, fmt.Errorf("%w: XDG_CURRENT_DESKTOP is not set", ErrUnsupported)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, currentDesktop)
		}
	default:
		return nil, fmt.Errorf("%w: os %s", ErrUnsupported, goos)
	}
}
