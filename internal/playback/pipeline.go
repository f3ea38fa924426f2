// Package playback controls one looping video pipeline. The pipeline is
// backed by an mpv process created by the surface layer; this package only
// issues property and seek commands over its IPC connection.
package playback

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrAssetUnplayable is returned when the video source cannot be decoded
// or never reaches a playable state.
var ErrAssetUnplayable = errors.New("asset is not playable")

// Conn is the slice of the mpv IPC client the pipeline needs.
type Conn interface {
	Command(args ...any) (json.RawMessage, error)
	SetProperty(name string, value any) error
	GetProperty(name string, out any) error
}

// Pipeline drives play/pause/volume/mute/restart for a single looping
// video. Looping itself is handled by mpv's --loop option, so there is no
// seek-on-end logic here and no visible seam at the loop boundary.
type Pipeline struct {
	conn Conn
}

// New wraps an established mpv connection in a Pipeline.
func New(conn Conn) *Pipeline {
	return &Pipeline{conn: conn}
}

// WaitPlayable blocks until mpv reports a loaded file or the timeout
// elapses. mpv drops back to idle when it cannot decode the source, which
// is how an unplayable asset shows up.
func (p *Pipeline) WaitPlayable(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var idle bool
		if err := p.conn.GetProperty("idle-active", &idle); err == nil && !idle {
			var duration float64
			if err := p.conn.GetProperty("duration", &duration); err == nil && duration > 0 {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return ErrAssetUnplayable
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Pause suspends playback. Idempotent; pausing a paused pipeline is a no-op.
func (p *Pipeline) Pause() error {
	return p.conn.SetProperty("pause", true)
}

// Resume continues playback from the current position. Idempotent.
func (p *Pipeline) Resume() error {
	return p.conn.SetProperty("pause", false)
}

// Restart seeks to time zero and resumes playback.
func (p *Pipeline) Restart() error {
	if _, err := p.conn.Command("seek", 0, "absolute"); err != nil {
		return err
	}
	return p.conn.SetProperty("pause", false)
}

// SetVolume sets the playback volume. v is 0.0-1.0; mpv wants 0-100.
func (p *Pipeline) SetVolume(v float64) error {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return p.conn.SetProperty("volume", v*100)
}

// SetMuted mutes or unmutes the audio track.
func (p *Pipeline) SetMuted(muted bool) error {
	return p.conn.SetProperty("mute", muted)
}

// Paused reports whether the pipeline is currently paused.
func (p *Pipeline) Paused() (bool, error) {
	var paused bool
	err := p.conn.GetProperty("pause", &paused)
	return paused, err
}
