package wallpaper

import (
	"github.com/matjam/loopwall/internal/display"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/surface"
)

// Surface is the manager's view of one display surface.
type Surface interface {
	NewOverlay(cfg overlay.Config) (Overlay, error)
	Pid() int
	Exited() bool
	Close()
}

// Pipeline is the manager's view of one playback pipeline.
type Pipeline interface {
	Pause() error
	Resume() error
	Restart() error
	SetVolume(v float64) error
	SetMuted(muted bool) error
}

// Overlay is the manager's view of one watermark overlay.
type Overlay interface {
	UpdateText(text string) error
	UpdateOpacity(opacity float64) error
	Remove() error
}

// Binding ties one display to its surface, pipeline and optional overlay.
// A binding is created and destroyed as a unit; a surface without its
// pipeline is never a valid state. Overlay is nil iff the watermark is
// disabled.
type Binding struct {
	Display  display.Display
	Surface  Surface
	Pipeline Pipeline
	Overlay  Overlay
}

// SurfaceFactory creates the surface and pipeline for one display. The
// default factory launches a real compositor window; tests substitute
// fakes.
type SurfaceFactory func(d display.Display, opts surface.Options) (Surface, Pipeline, error)

// mpvSurface adapts *surface.Surface to the manager's interfaces.
type mpvSurface struct {
	*surface.Surface
}

func (s *mpvSurface) NewOverlay(cfg overlay.Config) (Overlay, error) {
	return s.Surface.NewOverlay(cfg)
}

func defaultFactory(d display.Display, opts surface.Options) (Surface, Pipeline, error) {
	s, err := surface.Create(d, opts)
	if err != nil {
		return nil, nil, err
	}
	return &mpvSurface{s}, s.Pipeline(), nil
}
