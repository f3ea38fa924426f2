package overlay

import (
	"fmt"
	"strconv"
	"strings"
)

// Radius of the watermark background corners, in surface units.
const cornerRadius = 8.0

// Bezier control-point offset approximating a quarter circle.
const kappa = 0.5523

// RenderASS renders the watermark layout as ASS event lines for the
// compositor's osd-overlay channel: one drawing event for the rounded
// background box and one text event centered inside it.
//
// ASS coordinates are top-down, so the bottom-up layout rectangles are
// flipped against the container height here and nowhere else.
func RenderASS(cfg Config, width, height float64) string {
	bg, text := Layout(cfg, width, height)

	alpha := assAlpha(cfg.Opacity)
	bgColor := assColor(cfg.BackgroundColor, "#000000")
	fontColor := assColor(cfg.FontColor, "#FFFFFF")

	// Flip to top-origin screen space.
	bgTop := height - bg.Y - bg.H
	textCX := text.CenterX()
	textCY := height - text.CenterY()

	var b strings.Builder
	fmt.Fprintf(&b, "{\\an7\\pos(%s,%s)\\1c&H%s&\\1a&H%s&\\bord0\\shad0\\p1}%s{\\p0}\n",
		assNum(bg.X), assNum(bgTop), bgColor, alpha, roundedRectPath(bg.W, bg.H, cornerRadius))
	fmt.Fprintf(&b, "{\\an5\\pos(%s,%s)\\fs%s\\1c&H%s&\\1a&H%s&\\bord0\\shad0}%s",
		assNum(textCX), assNum(textCY), assNum(cfg.FontSize), fontColor, alpha, escapeASS(cfg.Text))
	return b.String()
}

// roundedRectPath emits an ASS vector drawing of a w x h rectangle with
// rounded corners, origin at the top left of the drawing.
func roundedRectPath(w, h, r float64) string {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	k := r * kappa

	var b strings.Builder
	fmt.Fprintf(&b, "m %s 0 ", assNum(r))
	fmt.Fprintf(&b, "l %s 0 ", assNum(w-r))
	fmt.Fprintf(&b, "b %s 0 %s %s %s %s ", assNum(w-r+k), assNum(w), assNum(r-k), assNum(w), assNum(r))
	fmt.Fprintf(&b, "l %s %s ", assNum(w), assNum(h-r))
	fmt.Fprintf(&b, "b %s %s %s %s %s %s ", assNum(w), assNum(h-r+k), assNum(w-r+k), assNum(h), assNum(w-r), assNum(h))
	fmt.Fprintf(&b, "l %s %s ", assNum(r), assNum(h))
	fmt.Fprintf(&b, "b %s %s 0 %s 0 %s ", assNum(r-k), assNum(h), assNum(h-r+k), assNum(h-r))
	fmt.Fprintf(&b, "l 0 %s ", assNum(r))
	fmt.Fprintf(&b, "b 0 %s %s 0 %s 0", assNum(r-k), assNum(r-k), assNum(r))
	return b.String()
}

// assAlpha converts a 0..1 opacity into the ASS alpha byte, where 00 is
// opaque and FF fully transparent.
func assAlpha(opacity float64) string {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	return fmt.Sprintf("%02X", int((1-opacity)*255+0.5))
}

// assColor converts "#RRGGBB" to the ASS BBGGRR hex form.
func assColor(hex, fallback string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		hex = strings.TrimPrefix(fallback, "#")
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		hex = strings.TrimPrefix(fallback, "#")
	}
	return strings.ToUpper(hex[4:6] + hex[2:4] + hex[0:2])
}

// escapeASS strips characters that would open an override block or break
// the single-line event format.
func escapeASS(s string) string {
	r := strings.NewReplacer("{", "(", "}", ")", "\n", " ", "\r", " ")
	return r.Replace(s)
}

// assNum formats a coordinate with enough precision for libass without
// trailing noise.
func assNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
