package ipc

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	methodSyn    = "syn"
	methodSynAck = "syn-ack"
	methodAck    = "ack"
)

// RendererHandshake runs the renderer side of the SYN/SYN-ACK/ACK exchange
// (spec §6.4): the renderer offers its id to the kernel and waits for the
// kernel's ack before the connection is usable. If c.RendererId is already
// set (e.g. from a command-line flag), that id is offered as-is; otherwise
// one is minted here.
func RendererHandshake(c *Conn) error {
	if c.RendererId == "" {
		c.RendererId = uuid.NewString()
	}
	syn, err := EncodePayload(c.RendererId)
	if err != nil {
		return err
	}
	if err := c.SendFrame(Frame{Kind: KindNotification, Note: &Notification{Method: methodSyn, Params: syn}}); err != nil {
		return fmt.Errorf("ipc: send syn: %w", err)
	}

	f, err := c.RecvFrame()
	if err != nil {
		return fmt.Errorf("ipc: await syn-ack: %w", err)
	}
	if f.Kind != KindNotification || f.Note.Method != methodSynAck {
		return fmt.Errorf("ipc: expected syn-ack, got kind=%d", f.Kind)
	}

	ack, err := EncodePayload(c.RendererId)
	if err != nil {
		return err
	}
	return c.SendFrame(Frame{Kind: KindNotification, Note: &Notification{Method: methodAck, Params: ack}})
}

// KernelHandshake runs the kernel side: it waits for the renderer's SYN,
// adopts the offered renderer id, replies SYN-ACK, then waits for ACK.
func KernelHandshake(c *Conn) error {
	f, err := c.RecvFrame()
	if err != nil {
		return fmt.Errorf("ipc: await syn: %w", err)
	}
	if f.Kind != KindNotification || f.Note.Method != methodSyn {
		return fmt.Errorf("ipc: expected syn, got kind=%d", f.Kind)
	}
	var rendererId string
	if err := DecodePayload(f.Note.Params, &rendererId); err != nil {
		return fmt.Errorf("ipc: decode syn payload: %w", err)
	}
	c.RendererId = rendererId

	ackPayload, err := EncodePayload(rendererId)
	if err != nil {
		return err
	}
	if err := c.SendFrame(Frame{Kind: KindNotification, Note: &Notification{Method: methodSynAck, Params: ackPayload}}); err != nil {
		return fmt.Errorf("ipc: send syn-ack: %w", err)
	}

	f, err = c.RecvFrame()
	if err != nil {
		return fmt.Errorf("ipc: await ack: %w", err)
	}
	if f.Kind != KindNotification || f.Note.Method != methodAck {
		return fmt.Errorf("ipc: expected ack, got kind=%d", f.Kind)
	}
	return nil
}
