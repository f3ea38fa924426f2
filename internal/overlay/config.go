// Package overlay lays out and draws the text watermark composited over
// each display's video surface.
package overlay

import "strings"

// Position anchors the watermark within the surface bounds.
type Position string

const (
	PositionTopLeft     Position = "topLeft"
	PositionTopRight    Position = "topRight"
	PositionBottomLeft  Position = "bottomLeft"
	PositionBottomRight Position = "bottomRight"
	PositionCenter      Position = "center"
)

// ParsePosition resolves a user-supplied position string. Matching is
// case-insensitive and unrecognized values fall back to bottom right.
func ParsePosition(s string) Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "topleft":
		return PositionTopLeft
	case "topright":
		return PositionTopRight
	case "bottomleft":
		return PositionBottomLeft
	case "bottomright":
		return PositionBottomRight
	case "center":
		return PositionCenter
	default:
		return PositionBottomRight
	}
}

// Config describes one watermark. It is a value type: updates replace the
// whole config, callers never mutate fields of a live overlay's config.
type Config struct {
	Text            string   `json:"text"`
	FontSize        float64  `json:"font_size"`
	FontColor       string   `json:"font_color"`
	BackgroundColor string   `json:"background_color,omitempty"`
	Position        Position `json:"position"`
	Opacity         float64  `json:"opacity"`
	Padding         float64  `json:"padding"`
}

// DefaultConfig returns the watermark used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Text:            "LiveWallpaper",
		FontSize:        24,
		FontColor:       "#FFFFFF",
		BackgroundColor: "#000000",
		Position:        PositionBottomRight,
		Opacity:         0.5,
		Padding:         16,
	}
}

// Normalize clamps opacity into [0,1] and fills zero-value fields from the
// defaults so a partially specified config is still renderable.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.FontSize <= 0 {
		c.FontSize = def.FontSize
	}
	if c.FontColor == "" {
		c.FontColor = def.FontColor
	}
	if c.Position == "" {
		c.Position = def.Position
	}
	if c.Opacity < 0 {
		c.Opacity = 0
	} else if c.Opacity > 1 {
		c.Opacity = 1
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	return c
}
