package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(pos Position) Config {
	cfg := DefaultConfig()
	cfg.Position = pos
	return cfg
}

func TestLayoutSizesBoxFromTextExtent(t *testing.T) {
	cfg := testConfig(PositionBottomRight)
	textW, textH := MeasureText(cfg.Text, cfg.FontSize)

	bg, text := Layout(cfg, 1920, 1080)

	assert.Equal(t, textW+2*cfg.Padding, bg.W)
	assert.Equal(t, textH+2*cfg.Padding, bg.H)
	assert.Equal(t, textW, text.W)
	assert.Equal(t, textH, text.H)
}

func TestLayoutCornerPositions(t *testing.T) {
	const width, height = 1920.0, 1080.0

	tests := []struct {
		name string
		pos  Position
		x    func(bg Rect, pad float64) float64
		y    func(bg Rect, pad float64) float64
	}{
		{
			name: "top left",
			pos:  PositionTopLeft,
			x:    func(bg Rect, pad float64) float64 { return pad },
			y:    func(bg Rect, pad float64) float64 { return height - bg.H - pad },
		},
		{
			name: "top right",
			pos:  PositionTopRight,
			x:    func(bg Rect, pad float64) float64 { return width - bg.W - pad },
			y:    func(bg Rect, pad float64) float64 { return height - bg.H - pad },
		},
		{
			name: "bottom left",
			pos:  PositionBottomLeft,
			x:    func(bg Rect, pad float64) float64 { return pad },
			y:    func(bg Rect, pad float64) float64 { return pad },
		},
		{
			name: "bottom right",
			pos:  PositionBottomRight,
			x:    func(bg Rect, pad float64) float64 { return width - bg.W - pad },
			y:    func(bg Rect, pad float64) float64 { return pad },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.pos)
			bg, _ := Layout(cfg, width, height)

			assert.Equal(t, tt.x(bg, cfg.Padding), bg.X)
			assert.Equal(t, tt.y(bg, cfg.Padding), bg.Y)
		})
	}
}

func TestLayoutStaysInsideContainer(t *testing.T) {
	const width, height = 1920.0, 1080.0

	for _, pos := range []Position{
		PositionTopLeft, PositionTopRight,
		PositionBottomLeft, PositionBottomRight,
		PositionCenter,
	} {
		t.Run(string(pos), func(t *testing.T) {
			bg, text := Layout(testConfig(pos), width, height)

			assert.GreaterOrEqual(t, bg.X, 0.0)
			assert.GreaterOrEqual(t, bg.Y, 0.0)
			assert.LessOrEqual(t, bg.X+bg.W, width)
			assert.LessOrEqual(t, bg.Y+bg.H, height)

			// Text sits inside the background box.
			assert.GreaterOrEqual(t, text.X, bg.X)
			assert.GreaterOrEqual(t, text.Y, bg.Y)
			assert.LessOrEqual(t, text.X+text.W, bg.X+bg.W)
			assert.LessOrEqual(t, text.Y+text.H, bg.Y+bg.H)
		})
	}
}

func TestLayoutCenterIsCentered(t *testing.T) {
	const width, height = 1921.0, 1081.0

	bg, _ := Layout(testConfig(PositionCenter), width, height)

	assert.InDelta(t, width/2, bg.CenterX(), 0.5)
	assert.InDelta(t, height/2, bg.CenterY(), 0.5)
}

func TestLayoutTextCenteredInBox(t *testing.T) {
	bg, text := Layout(testConfig(PositionTopRight), 2560, 1440)

	assert.InDelta(t, bg.CenterX(), text.CenterX(), 1e-9)
	assert.InDelta(t, bg.CenterY(), text.CenterY(), 1e-9)
}

func TestMeasureTextScalesWithRunes(t *testing.T) {
	w1, h1 := MeasureText("ab", 24)
	w2, h2 := MeasureText("abcd", 24)

	assert.Equal(t, h1, h2)
	assert.InDelta(t, 2*w1, w2, 1e-9)

	// Rune count, not byte count.
	wu, _ := MeasureText("日本", 24)
	assert.InDelta(t, w1, wu, 1e-9)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"topLeft", PositionTopLeft},
		{"TOPRIGHT", PositionTopRight},
		{"bottomleft", PositionBottomLeft},
		{"BottomRight", PositionBottomRight},
		{"center", PositionCenter},
		{" center ", PositionCenter},
		{"diagonal", PositionBottomRight},
		{"", PositionBottomRight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePosition(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeClampsOpacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Opacity = 1.7
	assert.Equal(t, 1.0, cfg.Normalize().Opacity)

	cfg.Opacity = -0.3
	assert.Equal(t, 0.0, cfg.Normalize().Opacity)
}

func TestAssAlpha(t *testing.T) {
	assert.Equal(t, "00", assAlpha(1))
	assert.Equal(t, "FF", assAlpha(0))
	assert.Equal(t, "80", assAlpha(0.5))
}

func TestAssColorSwapsChannels(t *testing.T) {
	assert.Equal(t, "CCBBAA", assColor("#AABBCC", "#000000"))
	assert.Equal(t, "000000", assColor("not-a-color", "#000000"))
	assert.Equal(t, "FFFFFF", assColor("", "#FFFFFF"))
}

func TestRenderASSFlipsVerticalOrigin(t *testing.T) {
	cfg := testConfig(PositionBottomLeft)
	out := RenderASS(cfg, 1920, 1080)

	bg, _ := Layout(cfg, 1920, 1080)
	top := 1080 - bg.Y - bg.H
	require.False(t, math.Signbit(top))

	// A bottom-anchored watermark must be painted near the bottom of the
	// top-origin ASS space.
	assert.Contains(t, out, "\\pos("+assNum(bg.X)+","+assNum(top)+")")
	assert.Contains(t, out, cfg.Text)
}

func TestRenderASSEscapesOverrideBraces(t *testing.T) {
	cfg := testConfig(PositionCenter)
	cfg.Text = "{\\b1}sneaky"
	out := RenderASS(cfg, 800, 600)

	assert.NotContains(t, out, "{\\b1}")
}
