package overlay

import "encoding/json"

// The watermark always uses the same compositor overlay slot; there is at
// most one overlay per surface.
const overlayID = 1

// Conn is the slice of the mpv IPC client the overlay needs.
type Conn interface {
	Command(args ...any) (json.RawMessage, error)
}

// Overlay is one watermark bound to one surface. It keeps the current
// config and container size so in-place mutations can repaint without the
// caller re-supplying geometry.
type Overlay struct {
	conn          Conn
	cfg           Config
	width, height float64
	hidden        bool
}

// New binds a watermark to a surface connection and paints it.
func New(conn Conn, cfg Config, width, height float64) (*Overlay, error) {
	o := &Overlay{conn: conn, cfg: cfg.Normalize(), width: width, height: height}
	if err := o.paint(); err != nil {
		return nil, err
	}
	return o, nil
}

// Config returns the overlay's current config.
func (o *Overlay) Config() Config {
	return o.cfg
}

// Hidden reports whether the overlay is currently hidden.
func (o *Overlay) Hidden() bool {
	return o.hidden
}

// UpdateText replaces the watermark text in place. The text extent drives
// the layout, so the box is recomputed on the next paint.
func (o *Overlay) UpdateText(text string) error {
	o.cfg.Text = text
	return o.paint()
}

// UpdateOpacity replaces the watermark opacity in place without touching
// the geometry.
func (o *Overlay) UpdateOpacity(opacity float64) error {
	o.cfg.Opacity = opacity
	o.cfg = o.cfg.Normalize()
	return o.paint()
}

// SetHidden toggles visibility. The overlay object and its config survive
// hiding; showing again repaints from the retained state.
func (o *Overlay) SetHidden(hidden bool) error {
	o.hidden = hidden
	return o.paint()
}

// Remove clears the overlay from the surface. The object must not be used
// afterwards.
func (o *Overlay) Remove() error {
	return o.clear()
}

func (o *Overlay) paint() error {
	if o.hidden {
		return o.clear()
	}
	data := RenderASS(o.cfg, o.width, o.height)
	_, err := o.conn.Command("osd-overlay", overlayID, "ass-events", data)
	return err
}

func (o *Overlay) clear() error {
	_, err := o.conn.Command("osd-overlay", overlayID, "none", "")
	return err
}
