// Package paint translates a laid-out box tree into a device-independent
// display list (spec §4.5) and defines the Painter contract (spec §6.3)
// an external rasterizer implements to consume it.
package paint

import cssx "github.com/wrenweb/wren/pkg/css"

// Rect is a device-independent f32-precision rectangle (spec §6.3); kept
// as float64 internally for precision, painters narrow on demand.
type Rect struct {
	X, Y, W, H float64
}

// CornerRadius is one corner's (horizontal, vertical) radius pair (spec
// §6.3's RRect). The core's simplified border-radius model (§4.3 FULL)
// always carries the same value on both axes.
type CornerRadius struct {
	RX, RY float64
}

// RRect is a rounded rectangle: a Rect plus one radius per corner.
type RRect struct {
	Rect
	TopLeft, TopRight, BottomRight, BottomLeft CornerRadius
}

// BorderSide is one edge's resolved paint parameters, or nil on the
// Border struct when that edge draws nothing (style none/hidden or zero
// width).
type BorderSide struct {
	Width float64
	Style string
	Color cssx.Color
}

// Border bundles the four edges a FillBorder command paints (spec §6.3).
type Border struct {
	Top, Right, Bottom, Left *BorderSide
}

// Command is one paint operation (spec §4.5/§6.3).
type Command interface{ isCommand() }

// FillRect fills rect with a flat color.
type FillRect struct {
	Rect  Rect
	Color cssx.Color
}

// FillRRect fills a rounded rect with a flat color.
type FillRRect struct {
	RRect RRect
	Color cssx.Color
}

// FillBorder paints the (up to) four border edges between contentRect's
// outer edge (the padding box) and borderRect (spec §6.3).
type FillBorder struct {
	ContentRect Rect
	BorderRect  Rect
	Sides       Border
}

// FillText paints one line fragment's text run.
type FillText struct {
	Content string
	Rect    Rect
	Color   cssx.Color
	SizePx  float64
}

func (FillRect) isCommand()   {}
func (FillRRect) isCommand()  {}
func (FillBorder) isCommand() {}
func (FillText) isCommand()   {}

// DisplayList is the ordered concatenation of paint commands (spec
// §4.5/GLOSSARY), handed to the external painter.
type DisplayList struct {
	Commands []Command
}

// Painter is the external collaborator's contract (spec §6.3): the core
// never rasterizes, it only emits commands against this interface.
type Painter interface {
	FillRect(r Rect, c cssx.Color)
	FillRRect(r RRect, c cssx.Color)
	FillBorder(contentRect, borderRect Rect, sides Border)
	FillText(content string, r Rect, c cssx.Color, sizePx float64)
}

// Replay feeds every command in dl to p, in order.
func (dl DisplayList) Replay(p Painter) {
	for _, cmd := range dl.Commands {
		switch c := cmd.(type) {
		case FillRect:
			p.FillRect(c.Rect, c.Color)
		case FillRRect:
			p.FillRRect(c.RRect, c.Color)
		case FillBorder:
			p.FillBorder(c.ContentRect, c.BorderRect, c.Sides)
		case FillText:
			p.FillText(c.Content, c.Rect, c.Color, c.SizePx)
		}
	}
}
