// Package layout converts a styled DOM tree into an absolutely positioned
// box tree (spec §3.4, §4.4): the layout tree builder repairs block/inline
// mixing with anonymous boxes, then the block and inline formatting
// contexts resolve geometry top-down.
package layout

import (
	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"
)

// FormattingContext is the layout discipline governing a container's
// children (spec GLOSSARY).
type FormattingContext int

const (
	FCBlock FormattingContext = iota
	FCInline
)

// BoxKind tags the handful of box shapes the core builds (spec §3.4).
type BoxKind int

const (
	BoxBlockContainer BoxKind = iota
	BoxInline
	BoxAnonymousBlock
	BoxText // anonymous text-carrying inline entity (spec §4.4.1)
)

// Rect is an axis-aligned box in absolute pixels.
type Rect struct {
	X, Y, W, H float64
}

// Edges is a four-side pixel measurement (top, right, bottom, left).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// BoxModel is a box's content rect plus its padding/border/margin edges
// (spec §3.4).
type BoxModel struct {
	Content Rect
	Padding Edges
	Border  Edges
	Margin  Edges
}

// PaddingBox returns content expanded by padding (spec §4.4.4).
func (m BoxModel) PaddingBox() Rect {
	return Rect{
		X: m.Content.X - m.Padding.Left,
		Y: m.Content.Y - m.Padding.Top,
		W: m.Content.W + m.Padding.Left + m.Padding.Right,
		H: m.Content.H + m.Padding.Top + m.Padding.Bottom,
	}
}

// BorderBox returns the padding box expanded by border.
func (m BoxModel) BorderBox() Rect {
	p := m.PaddingBox()
	return Rect{
		X: p.X - m.Border.Left,
		Y: p.Y - m.Border.Top,
		W: p.W + m.Border.Left + m.Border.Right,
		H: p.H + m.Border.Top + m.Border.Bottom,
	}
}

// MarginBox returns the border box expanded by margin.
func (m BoxModel) MarginBox() Rect {
	b := m.BorderBox()
	return Rect{
		X: b.X - m.Margin.Left,
		Y: b.Y - m.Margin.Top,
		W: b.W + m.Margin.Left + m.Margin.Right,
		H: b.H + m.Margin.Top + m.Margin.Bottom,
	}
}

// LineFragment is one box or text run placed inside a LineBox (spec
// GLOSSARY), with offset and size relative to the containing block's
// content box.
type LineFragment struct {
	Box    *LayoutBox // nil for a text fragment
	Text   string
	Offset Rect // only X, Y populated; the extent is in Size
	Size   struct{ W, H float64 }
}

// LineBox is one flowed line of an inline formatting context (spec
// §4.4.3).
type LineBox struct {
	Fragments []*LineFragment
	Y         float64
	Height    float64
}

// LayoutBox is one node of the laid-out tree (spec §3.4).
type LayoutBox struct {
	Node  *html.Node          // nil if anonymous
	Style *cssx.ComputedStyle // nil if anonymous
	Text  string              // populated when Kind == BoxText

	Kind BoxKind
	FC   FormattingContext

	Model BoxModel

	Parent   *LayoutBox
	Children []*LayoutBox

	// Lines is populated on a block container whose children are inline
	// (spec §4.4.3's line-box builder output).
	Lines []*LineBox

	AbsoluteX, AbsoluteY float64

	ScrollHeight float64
	ScrollTop    float64
	Scrollable   bool
}

// IsAnonymous reports whether the box has no backing DOM node.
func (b *LayoutBox) IsAnonymous() bool {
	return b.Node == nil
}

// isInlineLevel reports whether box participates as an inline-level
// sibling for the purposes of the §4.4.1 repair rules.
func isInlineLevel(box *LayoutBox) bool {
	return box.Kind == BoxInline || box.Kind == BoxText
}

// EffectiveStyle walks up to the nearest ancestor carrying a real
// ComputedStyle, used by anonymous boxes and text fragments for
// properties they don't have their own declared value for (e.g. inherited
// text-align/color/font-size).
func (b *LayoutBox) EffectiveStyle() *cssx.ComputedStyle {
	for box := b; box != nil; box = box.Parent {
		if box.Style != nil {
			return box.Style
		}
	}
	return nil
}

// TextAlign returns the effective `text-align` keyword, defaulting to
// "left" for boxes with no resolvable style.
func (b *LayoutBox) TextAlign() string {
	if s := b.EffectiveStyle(); s != nil {
		if ta := s.Keyword("text-align"); ta != "" {
			return ta
		}
	}
	return "left"
}

// FontSizePx returns the effective computed font-size in pixels.
func (b *LayoutBox) FontSizePx() float64 {
	if s := b.EffectiveStyle(); s != nil {
		return s.Px("font-size")
	}
	return 16
}

// EffectiveColor returns the effective value of a color-typed property.
func (b *LayoutBox) EffectiveColor(name string) cssx.Color {
	if s := b.EffectiveStyle(); s != nil {
		return s.Color(name)
	}
	return cssx.Color{}
}
