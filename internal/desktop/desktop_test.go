// ABOUTME: Tests for desktop-environment detection and setter command construction.
// ABOUTME: Uses a recording fake runner instead of executing real commands.
package desktop

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

func recordingRunner(calls *[]call, fail error) runner {
	return func(ctx context.Context, name string, args ...string) error {
		*calls = append(*calls, call{name: name, args: args})
		return fail
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name           string
		goos           string
		currentDesktop string
		wantName       string
		wantErr        bool
	}{
		{"gnome", "linux", "GNOME", "gnome", false},
		{"ubuntu gnome", "linux", "ubuntu:GNOME", "gnome", false},
		{"cinnamon", "linux", "X-Cinnamon", "cinnamon", false},
		{"macos", "darwin", "", "macos", false},
		{"kde", "linux", "KDE", "", true},
		{"no marker", "linux", "", "", true},
		{"windows", "windows", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setter, err := detect(tt.goos, tt.currentDesktop)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Fatalf("expected ErrUnsupported, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("detect() error: %v", err)
			}
			if setter.Name() != tt.wantName {
				t.Errorf("expected setter %q, got %q", tt.wantName, setter.Name())
			}
		})
	}
}

func TestGnomeApplySetsBothURIKeys(t *testing.T) {
	var calls []call
	s := &gsettingsSetter{name: "gnome", schema: "org.gnome.desktop.background", darkKey: true, run: recordingRunner(&calls, nil)}

	if err := s.Apply(context.Background(), "/tmp/w.jpg"); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 gsettings calls, got %d", len(calls))
	}
	want := [][]string{
		{"set", "org.gnome.desktop.background", "picture-uri", "file:///tmp/w.jpg"},
		{"set", "org.gnome.desktop.background", "picture-uri-dark", "file:///tmp/w.jpg"},
	}
	for i, c := range calls {
		if c.name != "gsettings" {
			t.Errorf("call %d: expected gsettings, got %s", i, c.name)
		}
		if strings.Join(c.args, " ") != strings.Join(want[i], " ") {
			t.Errorf("call %d args = %v, want %v", i, c.args, want[i])
		}
	}
}

func TestCinnamonApplySetsSingleKey(t *testing.T) {
	var calls []call
	s := &gsettingsSetter{name: "cinnamon", schema: "org.cinnamon.desktop.background", run: recordingRunner(&calls, nil)}

	if err := s.Apply(context.Background(), "/tmp/w.jpg"); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 gsettings call, got %d", len(calls))
	}
	if calls[0].args[1] != "org.cinnamon.desktop.background" {
		t.Errorf("expected cinnamon schema, got %v", calls[0].args)
	}
}

func TestGnomeApplyReportsFailure(t *testing.T) {
	var calls []call
	s := &gsettingsSetter{name: "gnome", schema: "org.gnome.desktop.background", run: recordingRunner(&calls, errors.New("exit status 1"))}

	err := s.Apply(context.Background(), "/tmp/w.jpg")
	if !errors.Is(err, ErrApplyFailed) {
		t.Errorf("expected ErrApplyFailed, got %v", err)
	}
}

func TestMacosApplyQuotesPath(t *testing.T) {
	var calls []call
	s := &osascriptSetter{run: recordingRunner(&calls, nil)}

	if err := s.Apply(context.Background(), `/tmp/my wallpaper.jpg`); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if len(calls) != 1 || calls[0].name != "osascript" {
		t.Fatalf("expected one osascript call, got %+v", calls)
	}
	script := calls[0].args[1]
	if !strings.Contains(script, `"/tmp/my wallpaper.jpg" as POSIX file`) {
		t.Errorf("expected quoted POSIX path in script, got %q", script)
	}
	if !strings.Contains(script, "tell every desktop") {
		t.Errorf("expected every-desktop form, got %q", script)
	}
}

func TestMacosApplyReportsFailure(t *testing.T) {
	var calls []call
	s := &osascriptSetter{run: recordingRunner(&calls, errors.New("exit status 1"))}

	err := s.Apply(context.Background(), "/tmp/w.jpg")
	if !errors.Is(err, ErrApplyFailed) {
		t.Errorf("expected ErrApplyFailed, got %v", err)
	}
}
