package pipeline

import (
	"fmt"

	"github.com/wrenweb/wren/internal/obslog"
	"github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"
	"github.com/wrenweb/wren/pkg/layout"
	"github.com/wrenweb/wren/pkg/paint"
)

// Rasterizer is the subset of an external paint.Painter implementation the
// pipeline needs to produce a FrameRendered bitmap: the paint contract
// itself, plus a way to read the finished canvas back out as RGBA8 (spec
// §6.2/§6.3 — the core only ever talks to this interface, never a concrete
// rasterizer).
type Rasterizer interface {
	paint.Painter
	Pixels() []byte
}

// NewRasterizer constructs one Rasterizer sized to a frame.
type NewRasterizer func(width, height int) Rasterizer

// Pipeline owns one tab's Document, viewport and scroll state and drains
// Commands synchronously (spec §5: "no additional concurrency is
// introduced in the core" — see Run for the goroutine that does own the
// channel).
type Pipeline struct {
	doc     *html.Document
	baseURL string

	viewportW, viewportH float64
	scrollY              float64

	sheets []css.SheetRef
	root   *layout.LayoutBox

	newRasterizer NewRasterizer
}

// New creates a Pipeline with an empty document and the given default
// viewport (spec §6.1's ViewportResize establishes the real size later).
func New(newRasterizer NewRasterizer, viewportW, viewportH float64) *Pipeline {
	doc := html.NewDocument()
	return &Pipeline{
		doc:           doc,
		viewportW:     viewportW,
		viewportH:     viewportH,
		newRasterizer: newRasterizer,
	}
}

// Dispatch applies one Command synchronously and returns the Events it
// produced, in order (spec §6.1/§6.2). It never panics: a panic during
// processing is recovered and reported as a single RendererDied event,
// matching spec §7's "Pipeline panic (bug)" handling.
func (p *Pipeline) Dispatch(cmd Command) (events []Event) {
	defer func() {
		if r := recover(); r != nil {
			obslog.L().Sugar().Errorw("pipeline panic recovered", "panic", r)
			events = []Event{RendererDied{Reason: fmt.Sprintf("%v", r)}}
		}
	}()

	switch c := cmd.(type) {
	case LoadHTML:
		return p.handleLoadHTML(c)
	case ViewportResize:
		return p.handleViewportResize(c)
	case Scroll:
		return p.handleScroll(c)
	case GetRenderedBitmap:
		return p.handleGetRenderedBitmap(c)
	default:
		return nil
	}
}

func (p *Pipeline) handleLoadHTML(c LoadHTML) []Event {
	var events []Event

	switch c.ContentType {
	case "text/css":
		sheet := css.ParseStylesheet(c.Content)
		p.sheets = append(p.sheets, css.SheetRef{Sheet: sheet, Origin: css.OriginAuthor, Location: css.LocationExternal})
	default:
		p.baseURL = c.BaseURL
		parser := html.NewParser(c.Content)
		var titles []string
		parser.Document().OnTitleChange = func(title string) { titles = append(titles, title) }
		doc := parser.Parse()

		p.doc = doc
		p.sheets = css.CollectStylesheets(doc, p.baseURL)
		if len(titles) > 0 {
			events = append(events, TitleChanged{Title: titles[len(titles)-1]})
		}
		events = append(events, URLChanged{URL: c.BaseURL})
	}

	p.relayout()
	events = append(events, p.paintFrame())
	return events
}

func (p *Pipeline) handleViewportResize(c ViewportResize) []Event {
	p.viewportW, p.viewportH = c.Width, c.Height
	p.relayout()
	return []Event{p.paintFrame()}
}

func (p *Pipeline) handleScroll(c Scroll) []Event {
	p.scrollY += c.DeltaY
	maxY := 0.0
	if p.root != nil && p.root.ScrollHeight > p.viewportH {
		maxY = p.root.ScrollHeight - p.viewportH
	}
	if p.scrollY > maxY {
		p.scrollY = maxY
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
	if p.root != nil {
		clampScroll(p.root, p.scrollY)
	}
	return []Event{p.paintFrame()}
}

func (p *Pipeline) handleGetRenderedBitmap(c GetRenderedBitmap) []Event {
	r := p.newRasterizer(int(p.viewportW), int(p.viewportH))
	if p.root != nil {
		paint.Build(p.root, p.viewportW, p.viewportH).Replay(r)
	}
	return []Event{RenderedBitmap{
		RequestId: c.RequestId,
		Width:     int(p.viewportW),
		Height:    int(p.viewportH),
		Bytes:     r.Pixels(),
	}}
}

func (p *Pipeline) relayout() {
	if p.doc == nil {
		return
	}
	p.root = layout.Build(p.doc, p.sheets, p.viewportW, p.viewportH)
	if p.root != nil {
		clampScroll(p.root, p.scrollY)
	}
}

func (p *Pipeline) paintFrame() Event {
	r := p.newRasterizer(int(p.viewportW), int(p.viewportH))
	if p.root != nil {
		paint.Build(p.root, p.viewportW, p.viewportH).Replay(r)
	}
	return FrameRendered{Width: int(p.viewportW), Height: int(p.viewportH), Pixels: r.Pixels()}
}

// clampScroll finds the root's scrollable box (the body, conventionally)
// and applies the given offset, clamped to [0, ScrollHeight-viewport].
func clampScroll(root *layout.LayoutBox, y float64) {
	var target *layout.LayoutBox
	layout.Walk(root, func(b *layout.LayoutBox) {
		if b.Scrollable && target == nil {
			target = b
		}
	})
	if target == nil {
		return
	}
	max := target.ScrollHeight - target.Model.Content.H
	if max < 0 {
		max = 0
	}
	if y < 0 {
		y = 0
	}
	if y > max {
		y = max
	}
	target.ScrollTop = y
}
