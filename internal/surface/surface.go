// Package surface creates and owns one borderless desktop-level rendering
// surface per display. A surface is an mpv window pinned to the display's
// bounds; the same process is the playback pipeline, and the watermark
// overlay is composited through its OSD channel.
package surface

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matjam/loopwall/internal/display"
	"github.com/matjam/loopwall/internal/mpv"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/playback"
)

// ErrCreationFailed is returned when the surface window or its control
// socket cannot be brought up.
var ErrCreationFailed = errors.New("surface creation failed")

// Options configure a surface and its pipeline at creation time.
type Options struct {
	VideoPath string
	Audio     bool
	Volume    float64 // 0.0 - 1.0, ignored when Audio is false
	SocketDir string  // defaults to the user runtime dir
}

// Surface is one wallpaper window bound to one display.
type Surface struct {
	display  display.Display
	proc     *mpv.Process
	pipeline *playback.Pipeline
}

// Create brings up a wallpaper surface on the given display and starts the
// looping pipeline on it. The window is borderless, click-through, kept at
// the desktop layer, and aspect-fills the display bounds. The asset must
// reach a playable state before Create returns; otherwise the surface is
// torn down and playback.ErrAssetUnplayable is returned.
func Create(d display.Display, opts Options) (*Surface, error) {
	sockDir := opts.SocketDir
	if sockDir == "" {
		sockDir = os.Getenv("XDG_RUNTIME_DIR")
		if sockDir == "" {
			sockDir = os.TempDir()
		}
	}
	sockPath := filepath.Join(sockDir, fmt.Sprintf("loopwall-mpv-%d.sock", d.Index))

	proc, err := mpv.Launch(sockPath, buildArgs(d, opts))
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %v", ErrCreationFailed, d.ID, err)
	}

	s := &Surface{
		display:  d,
		proc:     proc,
		pipeline: playback.New(proc.Client()),
	}

	if err := s.pipeline.WaitPlayable(10 * time.Second); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", opts.VideoPath, err)
	}

	log.Debugf("surface up on %s (%s)", d.ID, d.Geometry())
	return s, nil
}

// buildArgs assembles the mpv invocation for a wallpaper window on d.
func buildArgs(d display.Display, opts Options) []string {
	args := []string{
		"--loop=inf",          // seamless loop, no seek-on-end
		"--no-border",         // no window chrome
		"--fullscreen=yes",    // cover the whole display
		fmt.Sprintf("--fs-screen=%d", d.Index),
		"--geometry=" + d.Geometry(),
		fmt.Sprintf("--autofit=%dx%d", d.Width(), d.Height()),
		"--no-keepaspect",     // together with panscan: aspect-fill
		"--panscan=1.0",
		"--no-osc",
		"--osd-level=0",
		"--no-input-default-bindings",
		"--input-cursor=no",   // click-through: ignore pointer input
		"--no-focus-on-open",
		"--ontop=no",          // stay below everything else
		"--no-window-dragging",
		"--x11-name=loopwall", // lets the WM rule the window to the desktop layer
		"--no-terminal",
		"--really-quiet",
		"--stop-screensaver=no",
		"--hwdec=auto",
		"--no-resume-playback",
	}

	if opts.Audio {
		args = append(args, fmt.Sprintf("--volume=%d", int(clamp01(opts.Volume)*100)))
	} else {
		args = append(args, "--mute=yes", "--volume=0")
	}

	return append(args, opts.VideoPath)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Display returns the display this surface is bound to.
func (s *Surface) Display() display.Display {
	return s.display
}

// Pipeline returns the playback pipeline hosted by this surface.
func (s *Surface) Pipeline() *playback.Pipeline {
	return s.pipeline
}

// Pid returns the surface's compositor process id.
func (s *Surface) Pid() int {
	return s.proc.Pid()
}

// Exited reports whether the surface's compositor process has died
// underneath us.
func (s *Surface) Exited() bool {
	return s.proc.Exited()
}

// NewOverlay composites a watermark over this surface, sized to the
// display bounds.
func (s *Surface) NewOverlay(cfg overlay.Config) (*overlay.Overlay, error) {
	return overlay.New(s.proc.Client(), cfg, float64(s.display.Width()), float64(s.display.Height()))
}

// Close tears the surface and its pipeline down. The surface must not be
// used afterwards.
func (s *Surface) Close() {
	s.proc.Stop()
}
