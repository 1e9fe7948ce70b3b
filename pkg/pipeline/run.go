package pipeline

import "github.com/wrenweb/wren/internal/obslog"

// Mailbox holds at most one pending FrameRendered event: a newer frame
// replaces an older, unconsumed one rather than queuing behind it (spec
// §9's "1-slot mailbox" backpressure policy for output bitmaps).
type Mailbox struct {
	slot chan FrameRendered
}

// NewMailbox creates an empty one-slot mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slot: make(chan FrameRendered, 1)}
}

// Put installs f as the pending frame, discarding whatever frame (if any)
// was waiting unconsumed.
func (m *Mailbox) Put(f FrameRendered) {
	select {
	case <-m.slot:
	default:
	}
	m.slot <- f
}

// Take blocks for the next pending frame.
func (m *Mailbox) Take() FrameRendered {
	return <-m.slot
}

// Run drains commands on a single goroutine until the channel closes,
// routing every non-frame Event to out and every FrameRendered into
// frames (spec §9: one consumer, one command at a time). A RendererDied
// event stops the loop: per spec §7, a dead renderer produces no further
// frames until restarted.
func Run(p *Pipeline, commands <-chan Command, frames *Mailbox, out chan<- Event) {
	for cmd := range commands {
		events := p.Dispatch(cmd)
		died := false
		for _, ev := range events {
			switch e := ev.(type) {
			case FrameRendered:
				frames.Put(e)
			case RendererDied:
				obslog.L().Sugar().Errorw("renderer died", "reason", e.Reason)
				out <- ev
				died = true
			default:
				out <- ev
			}
		}
		if died {
			return
		}
	}
}
