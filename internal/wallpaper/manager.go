// Package wallpaper is the daemon core. The Manager owns one binding per
// connected display and is the only component that mutates them; every
// external input (IPC, signals, the lock monitor) is funneled through its
// command channel and applied on a single event loop.
package wallpaper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matjam/loopwall/internal/display"
	"github.com/matjam/loopwall/internal/frame"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/surface"
)

// ErrVideoFileNotFound is returned when the configured video path does not
// exist at startup.
var ErrVideoFileNotFound = errors.New("video file not found")

// Options configure the manager at construction time.
type Options struct {
	VideoPath       string
	FrameOutputPath string // empty skips fallback generation
	Audio           bool
	Volume          float64 // 0.0 - 1.0
	Watermark       overlay.Config
	ShowWatermark   bool
	SocketDir       string

	// Seams for tests; nil selects the real implementations.
	Factory       SurfaceFactory
	Enumerate     func() ([]display.Display, error)
	GenerateFrame func(videoPath, outputPath string) error
}

// Manager owns the fleet of per-display bindings.
type Manager struct {
	sync.Mutex
	opts Options

	watermark     overlay.Config
	showWatermark bool
	volume        float64
	muted         bool
	locked        bool
	paused        bool

	bindings []*Binding
	cmds     chan Command
	stop     chan struct{}
	stopOnce sync.Once
	monitor  io.Closer
	cleaned  bool
}

// NewManager validates the video, generates the optional fallback frame,
// and builds one binding per connected display. A surface failure on any
// display rolls back the bindings already built and aborts construction;
// no partial fleet is ever left running.
func NewManager(opts Options) (*Manager, error) {
	if opts.Factory == nil {
		opts.Factory = defaultFactory
	}
	if opts.Enumerate == nil {
		opts.Enumerate = display.List
	}
	if opts.GenerateFrame == nil {
		opts.GenerateFrame = frame.Generate
	}

	if _, err := os.Stat(opts.VideoPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoFileNotFound, opts.VideoPath)
	}

	if opts.FrameOutputPath != "" {
		if err := opts.GenerateFrame(opts.VideoPath, opts.FrameOutputPath); err != nil {
			// The fallback image is a nice-to-have; the wallpaper runs without it.
			log.Warnf("fallback frame not generated: %v", err)
		} else {
			log.Infof("fallback frame written to %s", opts.FrameOutputPath)
		}
	}

	m := &Manager{
		opts:          opts,
		watermark:     opts.Watermark.Normalize(),
		showWatermark: opts.ShowWatermark,
		volume:        opts.Volume,
		muted:         !opts.Audio,
		cmds:          make(chan Command, 16),
		stop:          make(chan struct{}),
	}

	if err := m.buildFleet(); err != nil {
		return nil, err
	}

	return m, nil
}

// buildFleet enumerates displays and creates one binding per display.
// Any creation failure releases the bindings built so far.
func (m *Manager) buildFleet() error {
	displays, err := m.opts.Enumerate()
	if err != nil {
		return fmt.Errorf("enumerating displays: %w", err)
	}

	log.Infof("building wallpaper fleet for %d display(s)", len(displays))

	for _, d := range displays {
		surf, pipe, err := m.opts.Factory(d, surface.Options{
			VideoPath: m.opts.VideoPath,
			Audio:     m.opts.Audio,
			Volume:    m.volume,
			SocketDir: m.opts.SocketDir,
		})
		if err != nil {
			m.closeBindings()
			return fmt.Errorf("display %s: %w", d.ID, err)
		}

		b := &Binding{Display: d, Surface: surf, Pipeline: pipe}

		if m.showWatermark {
			ov, err := surf.NewOverlay(m.watermark)
			if err != nil {
				// The watermark is decoration; the binding still counts.
				log.Warnf("watermark overlay on %s: %v", d.ID, err)
			} else {
				b.Overlay = ov
			}
		}

		m.bindings = append(m.bindings, b)
		log.Infof("display %s: surface up at %s", d.ID, d.Geometry())
	}

	if m.muted {
		m.each("mute", func(b *Binding) error { return b.Pipeline.SetMuted(true) })
	}

	// Fresh pipelines start playing.
	m.paused = false

	return nil
}

// EnqueueCommand hands a command to the event loop without blocking. A
// full queue drops the command; callers treat commands as best-effort.
// Termination goes through Stop, never through the queue.
func (m *Manager) EnqueueCommand(cmd Command) {
	select {
	case m.cmds <- cmd:
	default:
		log.Warnf("command queue full, dropping %s", cmd.Type)
	}
}

// Stop asks the event loop to shut down. The stop signal bypasses the
// command queue so a backed-up queue cannot swallow termination. Safe to
// call more than once and from any goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// AttachMonitor registers the lock monitor (or any closer) for release
// during Cleanup.
func (m *Manager) AttachMonitor(c io.Closer) {
	m.Lock()
	defer m.Unlock()
	m.monitor = c
}

// Run blocks on the command channel and applies commands one at a time
// until Stop is called, then cleans up. This is the single thread of
// control for all fleet state. Commands still queued when the stop signal
// fires are discarded.
func (m *Manager) Run() {
	log.Info("wallpaper manager running")

loop:
	for {
		select {
		case <-m.stop:
			break loop
		case cmd := <-m.cmds:
			// Status snapshots run on IPC goroutines; everything else is
			// serialized on this loop.
			m.Lock()
			m.dispatch(cmd)
			m.Unlock()
		}
	}

	log.Info("stopping wallpaper manager ...")
	m.Cleanup()
	log.Info("wallpaper manager stopped")
}

func (m *Manager) dispatch(cmd Command) {
	switch cmd.Type {
	case CommandLock:
		m.locked = true
		m.pauseAll()

	case CommandUnlock:
		m.locked = false
		m.resumeAll()

	case CommandBackground:
		// Defensive pause; the lock flag is owned by lock/unlock alone.
		m.pauseAll()

	case CommandForeground:
		// Lock state wins over focus state.
		if !m.locked {
			m.resumeAll()
		}

	case CommandRestart:
		// Restart seeks to zero and unpauses.
		m.paused = false
		m.each("restart", func(b *Binding) error { return b.Pipeline.Restart() })

	case CommandVolume:
		m.volume = cmd.Value
		m.each("volume", func(b *Binding) error { return b.Pipeline.SetVolume(cmd.Value) })

	case CommandToggleMute:
		m.muted = !m.muted
		muted := m.muted
		m.each("mute", func(b *Binding) error { return b.Pipeline.SetMuted(muted) })

	case CommandWatermarkText:
		m.watermark.Text = cmd.Text
		m.each("watermark text", func(b *Binding) error {
			if b.Overlay == nil {
				return nil
			}
			return b.Overlay.UpdateText(cmd.Text)
		})

	case CommandWatermarkOpacity:
		m.watermark.Opacity = cmd.Value
		m.watermark = m.watermark.Normalize()
		opacity := m.watermark.Opacity
		m.each("watermark opacity", func(b *Binding) error {
			if b.Overlay == nil {
				return nil
			}
			return b.Overlay.UpdateOpacity(opacity)
		})

	case CommandWatermarkShow:
		m.setWatermarkShown(cmd.Show)

	case CommandWatermarkConfig:
		if cmd.Config == nil {
			log.Error("watermark config command without a config")
			return
		}
		m.applyWatermarkConfig(*cmd.Config)

	case CommandRebuild:
		m.rebuild()

	default:
		log.Errorf("unknown command: %s", cmd.Type)
	}
}

// each applies op to every binding in enumeration order. One binding's
// failure is logged and does not block the rest of the fleet.
func (m *Manager) each(op string, fn func(*Binding) error) {
	for _, b := range m.bindings {
		if err := fn(b); err != nil {
			log.Errorf("%s on %s: %v", op, b.Display.ID, err)
		}
	}
}

func (m *Manager) pauseAll() {
	m.paused = true
	m.each("pause", func(b *Binding) error { return b.Pipeline.Pause() })
}

func (m *Manager) resumeAll() {
	m.paused = false
	m.each("resume", func(b *Binding) error { return b.Pipeline.Resume() })
}

// setWatermarkShown creates or removes the overlay on every binding,
// keeping the invariant that an overlay exists iff the watermark is shown.
func (m *Manager) setWatermarkShown(show bool) {
	m.showWatermark = show
	m.each("watermark show", func(b *Binding) error {
		switch {
		case show && b.Overlay == nil:
			ov, err := b.Surface.NewOverlay(m.watermark)
			if err != nil {
				return err
			}
			b.Overlay = ov
		case !show && b.Overlay != nil:
			err := b.Overlay.Remove()
			b.Overlay = nil
			return err
		}
		return nil
	})
}

// applyWatermarkConfig replaces the watermark wholesale: the overlay on
// every surface is destroyed and recreated with the new config. A failure
// on one surface is reported and the remaining surfaces still update; the
// watermark never takes the video down with it.
func (m *Manager) applyWatermarkConfig(cfg overlay.Config) {
	m.watermark = cfg.Normalize()
	m.each("watermark config", func(b *Binding) error {
		if b.Overlay != nil {
			if err := b.Overlay.Remove(); err != nil {
				log.Warnf("removing old overlay on %s: %v", b.Display.ID, err)
			}
			b.Overlay = nil
		}
		if !m.showWatermark {
			return nil
		}
		ov, err := b.Surface.NewOverlay(m.watermark)
		if err != nil {
			return err
		}
		b.Overlay = ov
		return nil
	})
}

// rebuild tears the whole fleet down and reconstructs it against the
// current display enumeration. Volume and mute carry over; the lock state
// keeps freshly built pipelines paused.
func (m *Manager) rebuild() {
	log.Info("rebuilding fleet after display change")
	m.closeBindings()

	if err := m.buildFleet(); err != nil {
		log.Errorf("fleet rebuild failed: %v", err)
		return
	}

	if m.volume > 0 {
		vol := m.volume
		m.each("volume", func(b *Binding) error { return b.Pipeline.SetVolume(vol) })
	}
	if m.locked {
		m.pauseAll()
	}
}

func (m *Manager) closeBindings() {
	for _, b := range m.bindings {
		if b.Overlay != nil {
			_ = b.Overlay.Remove()
		}
		_ = b.Pipeline.Pause()
		b.Surface.Close()
	}
	m.bindings = nil
}

// Cleanup releases every resource the manager owns: the lock monitor
// subscription and all bindings. It is the only teardown path and is safe
// to call more than once; the second call is a no-op.
func (m *Manager) Cleanup() {
	m.Lock()
	defer m.Unlock()

	if m.cleaned {
		return
	}
	m.cleaned = true

	if m.monitor != nil {
		_ = m.monitor.Close()
		m.monitor = nil
	}

	m.closeBindings()
	log.Info("all surfaces released")
}

// Bindings returns the current binding count. Used by status reporting
// and tests.
func (m *Manager) Bindings() int {
	m.Lock()
	defer m.Unlock()
	return len(m.bindings)
}

// Locked reports the lock flag as last set by the lock monitor events.
func (m *Manager) Locked() bool {
	m.Lock()
	defer m.Unlock()
	return m.locked
}
