package pipeline

import (
	"testing"

	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/paint"
)

// fakeRasterizer is a Rasterizer that records calls instead of drawing,
// so pipeline tests can assert a paint happened without depending on any
// concrete Painter implementation.
type fakeRasterizer struct {
	width, height int
	fillRects     int
}

func newFakeRasterizer(w, h int) Rasterizer { return &fakeRasterizer{width: w, height: h} }

func (f *fakeRasterizer) FillRect(r paint.Rect, c cssx.Color)   { f.fillRects++ }
func (f *fakeRasterizer) FillRRect(r paint.RRect, c cssx.Color) { f.fillRects++ }
func (f *fakeRasterizer) FillBorder(content, border paint.Rect, sides paint.Border) {
	f.fillRects++
}
func (f *fakeRasterizer) FillText(content string, r paint.Rect, c cssx.Color, sizePx float64) {
	f.fillRects++
}
func (f *fakeRasterizer) Pixels() []byte { return make([]byte, f.width*f.height*4) }

func TestDispatchLoadHTMLProducesTitleURLAndFrame(t *testing.T) {
	p := New(newFakeRasterizer, 200, 200)
	events := p.Dispatch(LoadHTML{Content: `<html><head><title>Hi</title></head><body><div style="width:10px;height:10px;background:red"></div></body></html>`, ContentType: "text/html", BaseURL: "file:///index.html"})

	var sawTitle, sawURL, sawFrame bool
	for _, ev := range events {
		switch e := ev.(type) {
		case TitleChanged:
			if e.Title != "Hi" {
				t.Errorf("title = %q, want Hi", e.Title)
			}
			sawTitle = true
		case URLChanged:
			if e.URL != "file:///index.html" {
				t.Errorf("url = %q, want file:///index.html", e.URL)
			}
			sawURL = true
		case FrameRendered:
			if e.Width != 200 || e.Height != 200 {
				t.Errorf("frame size = %dx%d, want 200x200", e.Width, e.Height)
			}
			sawFrame = true
		}
	}
	if !sawTitle || !sawURL || !sawFrame {
		t.Fatalf("events = %+v, want TitleChanged+URLChanged+FrameRendered", events)
	}
}

func TestDispatchViewportResizeRepaintsAtNewSize(t *testing.T) {
	p := New(newFakeRasterizer, 100, 100)
	p.Dispatch(LoadHTML{Content: `<html><body><div>hi</div></body></html>`, ContentType: "text/html"})

	events := p.Dispatch(ViewportResize{Width: 640, Height: 480})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 FrameRendered", len(events))
	}
	fr, ok := events[0].(FrameRendered)
	if !ok {
		t.Fatalf("event = %+v, want FrameRendered", events[0])
	}
	if fr.Width != 640 || fr.Height != 480 {
		t.Errorf("frame size = %dx%d, want 640x480", fr.Width, fr.Height)
	}
}

func TestDispatchGetRenderedBitmapCarriesRequestId(t *testing.T) {
	p := New(newFakeRasterizer, 50, 50)
	p.Dispatch(LoadHTML{Content: `<html><body>hi</body></html>`, ContentType: "text/html"})

	events := p.Dispatch(GetRenderedBitmap{RequestId: "req-7"})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	rb, ok := events[0].(RenderedBitmap)
	if !ok {
		t.Fatalf("event = %+v, want RenderedBitmap", events[0])
	}
	if rb.RequestId != "req-7" {
		t.Errorf("RequestId = %q, want req-7", rb.RequestId)
	}
	if len(rb.Bytes) != 50*50*4 {
		t.Errorf("len(Bytes) = %d, want %d", len(rb.Bytes), 50*50*4)
	}
}

// Dispatch never lets a command panic escape; it is recovered into a
// single RendererDied event (spec §7's "Pipeline panic (bug)" handling).
// A rasterizer that panics mid-paint is a realistic trigger: paintFrame
// runs inside Dispatch's deferred recover, same as every other stage.
func TestDispatchRecoversPanicAsRendererDied(t *testing.T) {
	p := New(func(w, h int) Rasterizer { return panicRasterizer{} }, 100, 100)
	events := p.Dispatch(LoadHTML{Content: `<html><body><div style="background:red"></div></body></html>`, ContentType: "text/html"})

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 RendererDied", len(events))
	}
	if _, ok := events[0].(RendererDied); !ok {
		t.Fatalf("event = %+v, want RendererDied", events[0])
	}
}

type panicRasterizer struct{}

func (panicRasterizer) FillRect(r paint.Rect, c cssx.Color)   { panic("boom") }
func (panicRasterizer) FillRRect(r paint.RRect, c cssx.Color) { panic("boom") }
func (panicRasterizer) FillBorder(content, border paint.Rect, sides paint.Border) {
	panic("boom")
}
func (panicRasterizer) FillText(content string, r paint.Rect, c cssx.Color, sizePx float64) {
	panic("boom")
}
func (panicRasterizer) Pixels() []byte { panic("boom") }

func TestScrollClampsToScrollHeight(t *testing.T) {
	p := New(newFakeRasterizer, 100, 50)
	tall := `<html><body><div style="height:2000px">hi</div></body></html>`
	p.Dispatch(LoadHTML{Content: tall, ContentType: "text/html"})

	p.Dispatch(Scroll{DeltaY: -100})
	if p.scrollY != 0 {
		t.Errorf("scrollY = %v after negative delta from 0, want clamped to 0", p.scrollY)
	}

	p.Dispatch(Scroll{DeltaY: 1_000_000})
	if p.scrollY <= 0 {
		t.Errorf("scrollY = %v after large positive delta, want a positive clamped value", p.scrollY)
	}
}
