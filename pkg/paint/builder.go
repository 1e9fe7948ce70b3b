package paint

import (
	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/layout"
)

const scrollbarWidth = 12.0

// builder accumulates commands while walking the layout tree pre-order
// (spec §4.5).
type builder struct {
	canvas          Rect
	cmds            []Command
	root            *layout.LayoutBox
	delegateRootBg  bool
}

// Build walks root pre-order and emits its display list, sized to a
// canvasW×canvasH painting region (spec §4.5/§6.2's FrameRendered
// dimensions).
func Build(root *layout.LayoutBox, canvasW, canvasH float64) DisplayList {
	b := &builder{canvas: Rect{0, 0, canvasW, canvasH}, root: root}
	if root != nil && root.Style != nil {
		b.delegateRootBg = root.Style.Color("background-color").A == 0
	}
	b.walk(root)
	return DisplayList{Commands: b.cmds}
}

func (b *builder) walk(box *layout.LayoutBox) {
	if box == nil {
		return
	}
	if box.IsAnonymous() {
		for _, c := range box.Children {
			b.walk(c)
		}
		return
	}
	border := rectOf(box.Model.BorderBox())
	if !intersects(border, b.canvas) {
		return
	}
	b.paintBox(box)
	if len(box.Lines) > 0 {
		b.paintLines(box)
	} else {
		for _, c := range box.Children {
			b.walk(c)
		}
	}
	if box.Scrollable {
		b.paintScrollbar(box)
	}
}

// paintBox emits step 1/2 of §4.5: the background fill (plain or
// rounded), then border edges. The root-background-delegation rule (spec
// §4.5) skips the root's own (transparent) background and instead paints
// the body's background over the full canvas when reached.
func (b *builder) paintBox(box *layout.LayoutBox) {
	style := box.Style
	pad := rectOf(box.Model.PaddingBox())

	switch {
	case box == b.root:
		if !b.delegateRootBg {
			b.emitBackground(style, pad)
		}
	case box.Node != nil && box.Node.TagName == "body" && b.delegateRootBg:
		bg := style.Color("background-color")
		b.cmds = append(b.cmds, FillRect{Rect: b.canvas, Color: bg})
	default:
		b.emitBackground(style, pad)
	}

	if sides, any := borderSides(style); any {
		border := rectOf(box.Model.BorderBox())
		b.cmds = append(b.cmds, FillBorder{ContentRect: pad, BorderRect: border, Sides: sides})
	}
}

func (b *builder) emitBackground(style *cssx.ComputedStyle, pad Rect) {
	bg := style.Color("background-color")
	if bg.A == 0 {
		return
	}
	if rr, rounded := roundedRect(style, pad); rounded {
		b.cmds = append(b.cmds, FillRRect{RRect: rr, Color: bg})
		return
	}
	b.cmds = append(b.cmds, FillRect{Rect: pad, Color: bg})
}

// paintLines emits step 3 of §4.5: each line fragment either recurses
// into its owning inline box (painting that box's own background/border
// at the fragment's placed rect) or, for plain text, emits FillText.
func (b *builder) paintLines(box *layout.LayoutBox) {
	origin := box.Model.Content
	for _, ln := range box.Lines {
		for _, f := range ln.Fragments {
			rect := Rect{X: origin.X + f.Offset.X, Y: origin.Y + f.Offset.Y, W: f.Size.W, H: f.Size.H}
			fontSize := box.FontSizePx()
			color := box.EffectiveColor("color")
			if f.Box != nil {
				b.paintFragmentBox(f.Box, rect)
				fontSize = f.Box.FontSizePx()
				color = f.Box.EffectiveColor("color")
			}
			b.cmds = append(b.cmds, FillText{Content: f.Text, Rect: rect, Color: color, SizePx: fontSize})
		}
	}
}

func (b *builder) paintFragmentBox(owner *layout.LayoutBox, rect Rect) {
	if owner.Style == nil {
		return
	}
	b.emitBackground(owner.Style, rect)
	if sides, any := borderSides(owner.Style); any {
		b.cmds = append(b.cmds, FillBorder{ContentRect: rect, BorderRect: rect, Sides: sides})
	}
}

// paintScrollbar emits step 4 of §4.5: a gray gutter along the padding
// box's right edge and a lighter thumb sized/offset proportional to
// content_height/scroll_height.
func (b *builder) paintScrollbar(box *layout.LayoutBox) {
	pad := rectOf(box.Model.PaddingBox())
	gutter := Rect{X: pad.X + pad.W - scrollbarWidth, Y: pad.Y, W: scrollbarWidth, H: pad.H}
	b.cmds = append(b.cmds, FillRect{Rect: gutter, Color: cssx.Color{R: 200, G: 200, B: 200, A: 255}})

	if box.ScrollHeight <= 0 {
		return
	}
	visible := box.Model.Content.H
	thumbH := pad.H * visible / box.ScrollHeight
	thumbY := pad.Y + pad.H*(box.ScrollTop/box.ScrollHeight)
	thumb := Rect{X: gutter.X, Y: thumbY, W: scrollbarWidth, H: thumbH}
	b.cmds = append(b.cmds, FillRect{Rect: thumb, Color: cssx.Color{R: 160, G: 160, B: 160, A: 255}})
}

func rectOf(r layout.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func intersects(a, b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// borderSides resolves each of the four border edges to a BorderSide, or
// nil when that edge's computed style is none/hidden or its width is
// zero (spec §4.5 step 2).
func borderSides(style *cssx.ComputedStyle) (Border, bool) {
	var b Border
	any := false
	if s := borderSide(style, "top"); s != nil {
		b.Top, any = s, true
	}
	if s := borderSide(style, "right"); s != nil {
		b.Right, any = s, true
	}
	if s := borderSide(style, "bottom"); s != nil {
		b.Bottom, any = s, true
	}
	if s := borderSide(style, "left"); s != nil {
		b.Left, any = s, true
	}
	return b, any
}

func borderSide(style *cssx.ComputedStyle, side string) *BorderSide {
	styleKw := style.Keyword("border-" + side + "-style")
	if styleKw == "" || styleKw == "none" || styleKw == "hidden" {
		return nil
	}
	width := style.Px("border-" + side + "-width")
	if width <= 0 {
		return nil
	}
	return &BorderSide{Width: width, Style: styleKw, Color: style.Color("border-" + side + "-color")}
}

// roundedRect reports whether any corner radius is non-zero and, if so,
// the RRect to paint in place of a plain FillRect (spec §4.5 step 1).
func roundedRect(style *cssx.ComputedStyle, pad Rect) (RRect, bool) {
	tl := style.Px("border-top-left-radius")
	tr := style.Px("border-top-right-radius")
	br := style.Px("border-bottom-right-radius")
	bl := style.Px("border-bottom-left-radius")
	if tl == 0 && tr == 0 && br == 0 && bl == 0 {
		return RRect{}, false
	}
	return RRect{
		Rect:        pad,
		TopLeft:     CornerRadius{tl, tl},
		TopRight:    CornerRadius{tr, tr},
		BottomRight: CornerRadius{br, br},
		BottomLeft:  CornerRadius{bl, bl},
	}, true
}
