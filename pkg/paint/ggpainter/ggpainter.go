// Package ggpainter is one real implementation of paint.Painter (spec
// §6.3), built on the teacher's own rasterization dependency,
// fogleman/gg, so render-testing can produce an actual PNG end to end.
package ggpainter

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/paint"
)

// Painter drives a fogleman/gg software-rasterized canvas.
type Painter struct {
	dc *gg.Context
}

// New creates a width×height canvas, cleared to white (the default
// canvas color when no element paints it, matching a blank page).
func New(width, height int) *Painter {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &Painter{dc: dc}
}

func setColor(dc *gg.Context, c cssx.Color) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// FillRect implements paint.Painter.
func (p *Painter) FillRect(r paint.Rect, c cssx.Color) {
	setColor(p.dc, c)
	p.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	p.dc.Fill()
}

// FillRRect implements paint.Painter. fogleman/gg only supports a single
// uniform corner radius; the max of the four corner radii is used, which
// matches visually for the common single-radius case this core targets.
func (p *Painter) FillRRect(r paint.RRect, c cssx.Color) {
	setColor(p.dc, c)
	radius := maxRadius(r)
	p.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	p.dc.Fill()
}

func maxRadius(r paint.RRect) float64 {
	m := r.TopLeft.RX
	for _, v := range []float64{r.TopLeft.RY, r.TopRight.RX, r.TopRight.RY, r.BottomRight.RX, r.BottomRight.RY, r.BottomLeft.RX, r.BottomLeft.RY} {
		if v > m {
			m = v
		}
	}
	return m
}

// FillBorder implements paint.Painter: each side with a non-nil BorderSide
// is stroked as a filled rectangle along that edge (a core-simplified
// stand-in for proper mitered border rendering, adequate for the solid
// single-width borders the subset supports).
func (p *Painter) FillBorder(contentRect, borderRect paint.Rect, sides paint.Border) {
	if sides.Top != nil {
		setColor(p.dc, sides.Top.Color)
		p.dc.DrawRectangle(borderRect.X, borderRect.Y, borderRect.W, sides.Top.Width)
		p.dc.Fill()
	}
	if sides.Bottom != nil {
		setColor(p.dc, sides.Bottom.Color)
		p.dc.DrawRectangle(borderRect.X, borderRect.Y+borderRect.H-sides.Bottom.Width, borderRect.W, sides.Bottom.Width)
		p.dc.Fill()
	}
	if sides.Left != nil {
		setColor(p.dc, sides.Left.Color)
		p.dc.DrawRectangle(borderRect.X, borderRect.Y, sides.Left.Width, borderRect.H)
		p.dc.Fill()
	}
	if sides.Right != nil {
		setColor(p.dc, sides.Right.Color)
		p.dc.DrawRectangle(borderRect.X+borderRect.W-sides.Right.Width, borderRect.Y, sides.Right.Width, borderRect.H)
		p.dc.Fill()
	}
}

// FillText implements paint.Painter. No real font rasterization is in the
// core's scope (spec §1 names font rasterization as an external
// collaborator); this painter falls back to golang.org/x/image's fixed
// 7x13 bitmap face rather than require a system font file, drawn once
// under a scale transform of size_px over the face's native 13px line
// height.
func (p *Painter) FillText(content string, r paint.Rect, c cssx.Color, sizePx float64) {
	setColor(p.dc, c)
	p.dc.SetFontFace(basicfont.Face7x13)
	scale := sizePx / 13.0
	p.dc.Push()
	p.dc.Translate(r.X, r.Y+r.H)
	p.dc.Scale(scale, scale)
	p.dc.DrawString(content, 0, 0)
	p.dc.Pop()
}

// Image returns the rendered RGBA8 bitmap.
func (p *Painter) Image() image.Image {
	return p.dc.Image()
}

// Pixels returns the canvas as row-major RGBA8 bytes (spec §6.2's
// FrameRendered payload), with no alignment padding between rows.
func (p *Painter) Pixels() []byte {
	img := p.dc.Image().(*image.RGBA)
	if img.Stride == img.Rect.Dx()*4 {
		return img.Pix
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out = append(out, row...)
	}
	return out
}

// SavePNG writes the rendered canvas to path.
func (p *Painter) SavePNG(path string) error {
	return p.dc.SavePNG(path)
}
