package overlay

// Rect is an axis-aligned rectangle in surface coordinates. The vertical
// origin increases upward: Y is the distance from the bottom edge of the
// surface to the bottom edge of the rectangle.
type Rect struct {
	X, Y, W, H float64
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Glyph metrics for the layout estimate. Text is ultimately shaped by the
// compositor's font renderer; the layout only needs a stable extent so the
// background box and anchor math are deterministic.
const (
	glyphAspect    = 0.6
	lineHeightMult = 1.2
)

// MeasureText estimates the extent of text at the given font size.
func MeasureText(text string, fontSize float64) (w, h float64) {
	return float64(len([]rune(text))) * fontSize * glyphAspect, fontSize * lineHeightMult
}

// Layout computes the watermark background and text rectangles for a
// config inside a container of the given width and height.
//
// Placement uses the bottom-up vertical origin: "bottom" positions sit
// padding above y=0, "top" positions sit at height minus the watermark
// height minus padding.
func Layout(cfg Config, width, height float64) (bg, text Rect) {
	textW, textH := MeasureText(cfg.Text, cfg.FontSize)

	bg.W = textW + 2*cfg.Padding
	bg.H = textH + 2*cfg.Padding

	switch cfg.Position {
	case PositionTopLeft:
		bg.X = cfg.Padding
		bg.Y = height - bg.H - cfg.Padding
	case PositionTopRight:
		bg.X = width - bg.W - cfg.Padding
		bg.Y = height - bg.H - cfg.Padding
	case PositionBottomLeft:
		bg.X = cfg.Padding
		bg.Y = cfg.Padding
	case PositionCenter:
		bg.X = (width - bg.W) / 2
		bg.Y = (height - bg.H) / 2
	default: // PositionBottomRight
		bg.X = width - bg.W - cfg.Padding
		bg.Y = cfg.Padding
	}

	text = Rect{
		X: bg.X + (bg.W-textW)/2,
		Y: bg.Y + (bg.H-textH)/2,
		W: textW,
		H: textH,
	}
	return bg, text
}
