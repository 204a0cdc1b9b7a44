// ABOUTME: Wallpaper setter for the GNOME/Cinnamon family via gsettings.
// ABOUTME: Points the background schema's picture-uri keys at a file:// URI.
package desktop

import (
	"context"
	"fmt"
)

// gsettingsSetter covers desktops that expose their background setting
// through a gsettings schema. GNOME additionally has a dark-variant key.
type gsettingsSetter struct {
	name    string
	schema  string
	darkKey bool
	run     runner
}

func (g *gsettingsSetter) Name() string {
	return g.name
}

func (g *gsettingsSetter) Apply(ctx context.Context, imagePath string) error {
	uri := "file://" + imagePath
	if err := g.run(ctx, "gsettings", "set", g.schema, "picture-uri", uri); err != nil {
		return fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	if g.darkKey {
		if err := g.run(ctx, "gsettings", "set", g.schema, "picture-uri-dark", uri); err != nil {
			return fmt.Errorf("%w: %v", ErrApplyFailed, err)
		}
	}
	return nil
}
