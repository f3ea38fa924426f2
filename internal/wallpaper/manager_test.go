package wallpaper

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matjam/loopwall/internal/display"
	"github.com/matjam/loopwall/internal/lockmon"
	"github.com/matjam/loopwall/internal/overlay"
	"github.com/matjam/loopwall/internal/surface"
)

type fakePipeline struct {
	paused   bool
	muted    bool
	volume   float64
	restarts int
}

func (p *fakePipeline) Pause() error              { p.paused = true; return nil }
func (p *fakePipeline) Resume() error             { p.paused = false; return nil }
func (p *fakePipeline) Restart() error            { p.restarts++; p.paused = false; return nil }
func (p *fakePipeline) SetVolume(v float64) error { p.volume = v; return nil }
func (p *fakePipeline) SetMuted(muted bool) error { p.muted = muted; return nil }

type fakeOverlay struct {
	cfg     overlay.Config
	removed bool
}

func (o *fakeOverlay) UpdateText(text string) error        { o.cfg.Text = text; return nil }
func (o *fakeOverlay) UpdateOpacity(opacity float64) error { o.cfg.Opacity = opacity; return nil }
func (o *fakeOverlay) Remove() error                       { o.removed = true; return nil }

type fakeSurface struct {
	display    display.Display
	closed     int
	exited     bool
	overlayErr error
	overlays   []*fakeOverlay
}

func (s *fakeSurface) NewOverlay(cfg overlay.Config) (Overlay, error) {
	if s.overlayErr != nil {
		return nil, s.overlayErr
	}
	ov := &fakeOverlay{cfg: cfg}
	s.overlays = append(s.overlays, ov)
	return ov, nil
}

func (s *fakeSurface) Pid() int     { return 1000 + s.display.Index }
func (s *fakeSurface) Exited() bool { return s.exited }
func (s *fakeSurface) Close()       { s.closed++ }

// fleet collects everything the fake factory creates so tests can inspect
// surfaces that the manager has already dropped.
type fleet struct {
	surfaces  []*fakeSurface
	pipelines []*fakePipeline
	failOn    map[int]error
}

func (f *fleet) factory(d display.Display, _ surface.Options) (Surface, Pipeline, error) {
	if err := f.failOn[d.Index]; err != nil {
		return nil, nil, err
	}
	s := &fakeSurface{display: d}
	p := &fakePipeline{}
	f.surfaces = append(f.surfaces, s)
	f.pipelines = append(f.pipelines, p)
	return s, p, nil
}

func testDisplays(n int) []display.Display {
	out := make([]display.Display, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, display.Display{
			Index:   i,
			ID:      fmt.Sprintf("display-%d", i),
			Bounds:  image.Rect(i*1920, 0, (i+1)*1920, 1080),
			Primary: i == 0,
		})
	}
	return out
}

func tempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o644))
	return path
}

func newTestManager(t *testing.T, f *fleet, mutate func(*Options)) *Manager {
	t.Helper()

	opts := Options{
		VideoPath:     tempVideo(t),
		Watermark:     overlay.DefaultConfig(),
		ShowWatermark: true,
		Factory:       f.factory,
		Enumerate:     func() ([]display.Display, error) { return testDisplays(2), nil },
		GenerateFrame: func(_, _ string) error { return nil },
	}
	if mutate != nil {
		mutate(&opts)
	}

	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func TestNewManagerMissingVideo(t *testing.T) {
	_, err := NewManager(Options{
		VideoPath: "/nonexistent/sample.mp4",
		Factory:   (&fleet{}).factory,
		Enumerate: func() ([]display.Display, error) { return testDisplays(1), nil },
	})
	assert.ErrorIs(t, err, ErrVideoFileNotFound)
}

func TestNewManagerDefaultScenario(t *testing.T) {
	f := &fleet{}
	frameOut := ""
	m := newTestManager(t, f, func(o *Options) {
		o.FrameOutputPath = "frame.png"
		o.GenerateFrame = func(_, out string) error { frameOut = out; return nil }
	})

	// Two displays, two bindings, fallback frame written.
	assert.Equal(t, 2, m.Bindings())
	assert.Equal(t, "frame.png", frameOut)

	// Watermark on both displays: default text, bottom right.
	require.Len(t, f.surfaces, 2)
	for _, s := range f.surfaces {
		require.Len(t, s.overlays, 1)
		assert.Equal(t, "LiveWallpaper", s.overlays[0].cfg.Text)
		assert.Equal(t, overlay.PositionBottomRight, s.overlays[0].cfg.Position)
	}

	// Playing and muted.
	for _, p := range f.pipelines {
		assert.False(t, p.paused)
		assert.True(t, p.muted)
	}
}

func TestNewManagerFrameFailureIsNonFatal(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, func(o *Options) {
		o.FrameOutputPath = "frame.png"
		o.GenerateFrame = func(_, _ string) error { return errors.New("ffmpeg exploded") }
	})
	assert.Equal(t, 2, m.Bindings())
}

func TestNewManagerNoOverlayWhenWatermarkDisabled(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, func(o *Options) { o.ShowWatermark = false })

	assert.Equal(t, 2, m.Bindings())
	for _, s := range f.surfaces {
		assert.Empty(t, s.overlays)
	}

	st := m.Snapshot()
	for _, b := range st.Bindings {
		assert.False(t, b.Overlay)
	}
}

func TestSurfaceFailureRollsBackFleet(t *testing.T) {
	f := &fleet{failOn: map[int]error{1: surface.ErrCreationFailed}}

	_, err := NewManager(Options{
		VideoPath: tempVideo(t),
		Factory:   f.factory,
		Enumerate: func() ([]display.Display, error) { return testDisplays(2), nil },
	})
	require.ErrorIs(t, err, surface.ErrCreationFailed)

	// The surface that did come up was released again.
	require.Len(t, f.surfaces, 1)
	assert.Equal(t, 1, f.surfaces[0].closed)
}

func TestLockPausesFleetAndSetsFlag(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandLock})

	assert.True(t, m.locked)
	for _, p := range f.pipelines {
		assert.True(t, p.paused)
	}

	m.dispatch(Command{Type: CommandUnlock})

	assert.False(t, m.locked)
	for _, p := range f.pipelines {
		assert.False(t, p.paused)
	}
}

func TestLockTransitionFromAnyPriorState(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	// Duplicate lock events are tolerated because pause is idempotent.
	m.dispatch(Command{Type: CommandLock})
	m.dispatch(Command{Type: CommandLock})

	assert.True(t, m.locked)
	for _, p := range f.pipelines {
		assert.True(t, p.paused)
	}
}

func TestBackgroundPausesWithoutTouchingLockFlag(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandBackground})

	assert.False(t, m.locked)
	for _, p := range f.pipelines {
		assert.True(t, p.paused)
	}
}

func TestForegroundResumeIsLockGated(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandLock})
	m.dispatch(Command{Type: CommandForeground})

	// Lock state wins over focus state.
	for _, p := range f.pipelines {
		assert.True(t, p.paused)
	}

	m.dispatch(Command{Type: CommandUnlock})
	m.dispatch(Command{Type: CommandBackground})
	m.dispatch(Command{Type: CommandForeground})

	for _, p := range f.pipelines {
		assert.False(t, p.paused)
	}
}

func TestSnapshotReportsPauseAndProcessState(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	st := m.Snapshot()
	require.Len(t, st.Bindings, 2)
	for _, b := range st.Bindings {
		assert.True(t, b.Running)
		assert.False(t, b.Paused)
	}

	m.dispatch(Command{Type: CommandLock})
	f.surfaces[1].exited = true

	st = m.Snapshot()
	assert.True(t, st.Locked)
	assert.True(t, st.Bindings[0].Paused)
	assert.True(t, st.Bindings[1].Paused)
	assert.True(t, st.Bindings[0].Running)
	assert.False(t, st.Bindings[1].Running)

	m.dispatch(Command{Type: CommandUnlock})
	m.dispatch(Command{Type: CommandRestart})
	assert.False(t, m.Snapshot().Bindings[0].Paused)
}

func TestPauseResumeIdempotence(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.pauseAll()
	once := make([]bool, len(f.pipelines))
	for i, p := range f.pipelines {
		once[i] = p.paused
	}
	m.pauseAll()
	for i, p := range f.pipelines {
		assert.Equal(t, once[i], p.paused)
	}

	m.resumeAll()
	m.resumeAll()
	for _, p := range f.pipelines {
		assert.False(t, p.paused)
	}
}

func TestVolumeAppliedToEveryBinding(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandVolume, Value: 0.7})

	for _, p := range f.pipelines {
		assert.Equal(t, 0.7, p.volume)
	}
	assert.Equal(t, 0.7, m.Snapshot().Volume)
}

func TestToggleMuteFlipsEveryBinding(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	// Audio disabled at startup means muted.
	require.True(t, m.Snapshot().Muted)

	m.dispatch(Command{Type: CommandToggleMute})
	assert.False(t, m.Snapshot().Muted)
	for _, p := range f.pipelines {
		assert.False(t, p.muted)
	}

	m.dispatch(Command{Type: CommandToggleMute})
	assert.True(t, m.Snapshot().Muted)
	for _, p := range f.pipelines {
		assert.True(t, p.muted)
	}
}

func TestRestartAppliedToEveryBinding(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandRestart})

	for _, p := range f.pipelines {
		assert.Equal(t, 1, p.restarts)
		assert.False(t, p.paused)
	}
}

func TestWatermarkTextAndOpacityUpdateInPlace(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandWatermarkText, Text: "hello"})
	m.dispatch(Command{Type: CommandWatermarkOpacity, Value: 0.25})

	for _, s := range f.surfaces {
		require.Len(t, s.overlays, 1)
		assert.Equal(t, "hello", s.overlays[0].cfg.Text)
		assert.Equal(t, 0.25, s.overlays[0].cfg.Opacity)
		assert.False(t, s.overlays[0].removed)
	}
}

func TestWatermarkShowHideKeepsBindingInvariant(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandWatermarkShow, Show: false})
	for _, b := range m.bindings {
		assert.Nil(t, b.Overlay)
	}
	for _, s := range f.surfaces {
		assert.True(t, s.overlays[0].removed)
	}

	m.dispatch(Command{Type: CommandWatermarkShow, Show: true})
	for _, b := range m.bindings {
		assert.NotNil(t, b.Overlay)
	}
	for _, s := range f.surfaces {
		require.Len(t, s.overlays, 2)
		assert.False(t, s.overlays[1].removed)
	}
}

func TestWatermarkConfigRecreatesOverlays(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	cfg := overlay.DefaultConfig()
	cfg.Text = "replaced"
	cfg.Position = overlay.PositionTopLeft
	m.dispatch(Command{Type: CommandWatermarkConfig, Config: &cfg})

	for _, s := range f.surfaces {
		require.Len(t, s.overlays, 2)
		assert.True(t, s.overlays[0].removed)
		assert.Equal(t, "replaced", s.overlays[1].cfg.Text)
		assert.Equal(t, overlay.PositionTopLeft, s.overlays[1].cfg.Position)
	}
}

func TestWatermarkConfigFailureDoesNotBlockOtherSurfaces(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	// First surface refuses new overlays from now on.
	f.surfaces[0].overlayErr = errors.New("compositor said no")

	cfg := overlay.DefaultConfig()
	cfg.Text = "partial"
	m.dispatch(Command{Type: CommandWatermarkConfig, Config: &cfg})

	// The failing surface lost its overlay, the other one got the update.
	assert.Nil(t, m.bindings[0].Overlay)
	require.NotNil(t, m.bindings[1].Overlay)
	assert.Equal(t, "partial", f.surfaces[1].overlays[1].cfg.Text)
}

func TestWatermarkConfigWhileHiddenCreatesNothing(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, func(o *Options) { o.ShowWatermark = false })

	cfg := overlay.DefaultConfig()
	m.dispatch(Command{Type: CommandWatermarkConfig, Config: &cfg})

	for _, s := range f.surfaces {
		assert.Empty(t, s.overlays)
	}
}

func TestRebuildTracksDisplayCount(t *testing.T) {
	f := &fleet{}
	displays := testDisplays(2)
	m := newTestManager(t, f, func(o *Options) {
		o.Enumerate = func() ([]display.Display, error) { return displays, nil }
	})
	require.Equal(t, 2, m.Bindings())

	displays = testDisplays(3)
	m.dispatch(Command{Type: CommandRebuild})

	assert.Equal(t, 3, m.Bindings())

	// The two original surfaces were released; no leaked bindings.
	require.Len(t, f.surfaces, 5)
	assert.Equal(t, 1, f.surfaces[0].closed)
	assert.Equal(t, 1, f.surfaces[1].closed)
	for _, s := range f.surfaces[2:] {
		assert.Zero(t, s.closed)
	}
}

func TestRebuildPreservesVolumeAndLockState(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.dispatch(Command{Type: CommandVolume, Value: 0.4})
	m.dispatch(Command{Type: CommandLock})
	m.dispatch(Command{Type: CommandRebuild})

	for _, p := range f.pipelines[2:] {
		assert.Equal(t, 0.4, p.volume)
		assert.True(t, p.paused)
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.Cleanup()
	assert.Zero(t, m.Bindings())
	for _, s := range f.surfaces {
		assert.Equal(t, 1, s.closed)
	}

	// Second call is a no-op.
	m.Cleanup()
	for _, s := range f.surfaces {
		assert.Equal(t, 1, s.closed)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCleanupUnsubscribesMonitor(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	closed := 0
	m.AttachMonitor(closerFunc(func() error { closed++; return nil }))

	m.Cleanup()
	m.Cleanup()
	assert.Equal(t, 1, closed)
}

func TestRunDispatchesThenStops(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	m.EnqueueCommand(Command{Type: CommandVolume, Value: 0.9})
	require.Eventually(t, func() bool {
		m.Lock()
		defer m.Unlock()
		return f.pipelines[0].volume == 0.9
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	assert.Zero(t, m.Bindings())
	for _, p := range f.pipelines {
		assert.Equal(t, 0.9, p.volume)
	}
}

func TestStopBypassesFullCommandQueue(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	// Back the queue up well past its capacity before Run ever drains it;
	// the overflow is dropped, the stop signal must not be.
	for i := 0; i < cap(m.cmds)+4; i++ {
		m.EnqueueCommand(Command{Type: CommandRestart})
	}
	m.Stop()

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop while the command queue was full")
	}
	assert.Zero(t, m.Bindings())
}

func TestStopIsIdempotent(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.Stop()
	m.Stop()

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestHandleLockEventUsesSubscriptionTable(t *testing.T) {
	f := &fleet{}
	m := newTestManager(t, f, nil)

	m.HandleLockEvent(lockmon.EventLocked)
	m.HandleLockEvent(lockmon.Event("bogus"))

	require.Len(t, m.cmds, 1)
	cmd := <-m.cmds
	assert.Equal(t, CommandLock, cmd.Type)
}
