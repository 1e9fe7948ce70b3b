package layout

import "unicode/utf8"

// charWidthRatio approximates a monospace glyph's advance width as a
// fraction of the font size; there is no font rasterizer in the core's
// scope (spec §1), so text metrics are a fixed, deterministic stand-in
// rather than real shaping.
const charWidthRatio = 0.6

// MeasureText returns a word's pixel width and line-box height at the
// given computed font size (spec §4.4.3).
func MeasureText(s string, fontSizePx float64) (width, height float64) {
	n := utf8.RuneCountInString(s)
	return float64(n) * fontSizePx * charWidthRatio, fontSizePx
}

func spaceWidth(fontSizePx float64) float64 {
	w, _ := MeasureText(" ", fontSizePx)
	return w
}
