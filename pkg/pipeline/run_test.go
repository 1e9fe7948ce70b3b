package pipeline

import "testing"

// Put replaces a pending, unconsumed frame rather than queuing behind it
// (spec §9's 1-slot mailbox backpressure policy).
func TestMailboxPutReplacesUnconsumedFrame(t *testing.T) {
	m := NewMailbox()
	m.Put(FrameRendered{Width: 1})
	m.Put(FrameRendered{Width: 2})

	got := m.Take()
	if got.Width != 2 {
		t.Fatalf("Take() = %+v, want the newer frame (Width=2)", got)
	}
}

func TestMailboxTakeBlocksUntilPut(t *testing.T) {
	m := NewMailbox()
	done := make(chan FrameRendered, 1)
	go func() { done <- m.Take() }()

	select {
	case <-done:
		t.Fatal("Take() returned before any Put()")
	default:
	}

	m.Put(FrameRendered{Width: 42})
	got := <-done
	if got.Width != 42 {
		t.Fatalf("Take() = %+v, want Width=42", got)
	}
}

// Run routes FrameRendered into the mailbox (replacing, never queuing)
// and every other event onto out, in order (spec §9).
func TestRunRoutesFrameRenderedToMailboxAndOthersToOut(t *testing.T) {
	p := New(newFakeRasterizer, 100, 100)
	commands := make(chan Command, 4)
	frames := NewMailbox()
	out := make(chan Event, 8)

	commands <- LoadHTML{Content: `<html><head><title>T</title></head><body>hi</body></html>`, ContentType: "text/html"}
	commands <- ViewportResize{Width: 50, Height: 50}
	close(commands)

	Run(p, commands, frames, out)
	close(out)

	var sawTitle, sawURL int
	for ev := range out {
		switch ev.(type) {
		case TitleChanged:
			sawTitle++
		case URLChanged:
			sawURL++
		case FrameRendered:
			t.Fatal("FrameRendered should go to the mailbox, not out")
		}
	}
	if sawTitle != 1 || sawURL != 1 {
		t.Fatalf("sawTitle=%d sawURL=%d, want 1 each", sawTitle, sawURL)
	}

	frame := frames.Take()
	if frame.Width != 50 || frame.Height != 50 {
		t.Fatalf("mailbox frame = %+v, want the latest (50x50) frame", frame)
	}
}

// RendererDied stops the Run loop: no commands after it are processed.
func TestRunStopsOnRendererDied(t *testing.T) {
	p := New(func(w, h int) Rasterizer { return panicRasterizer{} }, 100, 100)
	commands := make(chan Command, 2)
	frames := NewMailbox()
	out := make(chan Event, 4)

	commands <- LoadHTML{Content: `<html><body>hi</body></html>`, ContentType: "text/html"}
	commands <- ViewportResize{Width: 10, Height: 10}
	close(commands)

	Run(p, commands, frames, out)
	close(out)

	var events []Event
	for ev := range out {
		events = append(events, ev)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1 RendererDied", len(events))
	}
	if _, ok := events[0].(RendererDied); !ok {
		t.Fatalf("event = %+v, want RendererDied", events[0])
	}
}
