// ABOUTME: Wallpaper setter for macOS via osascript and System Events.
// ABOUTME: Sets the desktop picture on every connected display.
package desktop

import (
	"context"
	"fmt"
	"strconv"
)

type osascriptSetter struct {
	run runner
}

func (o *osascriptSetter) Name() string {
	return "macos"
}

func (o *osascriptSetter) Apply(ctx context.Context, imagePath string) error {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %s as POSIX file`, strconv.Quote(imagePath))
	if err := o.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	return nil
}
