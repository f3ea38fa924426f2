// Package display enumerates the monitors known to the operating system.
package display

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Display is one physical or virtual monitor. Bounds are in the global
// desktop coordinate space, so multi-monitor offsets are preserved.
type Display struct {
	Index   int             `json:"index"`
	ID      string          `json:"id"`
	Bounds  image.Rectangle `json:"bounds"`
	Primary bool            `json:"primary"`
}

// Width returns the pixel width of the display.
func (d Display) Width() int { return d.Bounds.Dx() }

// Height returns the pixel height of the display.
func (d Display) Height() int { return d.Bounds.Dy() }

// Geometry formats the display bounds as WxH+X+Y, the form mpv and most
// X11 tools expect.
func (d Display) Geometry() string {
	return fmt.Sprintf("%dx%d+%d+%d", d.Bounds.Dx(), d.Bounds.Dy(), d.Bounds.Min.X, d.Bounds.Min.Y)
}

// List returns the currently connected displays in enumeration order.
// Display 0 is treated as primary.
func List() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		displays = append(displays, Display{
			Index:   i,
			ID:      fmt.Sprintf("display-%d", i),
			Bounds:  bounds,
			Primary: i == 0,
		})
	}
	return displays, nil
}
