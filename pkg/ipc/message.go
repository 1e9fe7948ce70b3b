// Package ipc implements the renderer/kernel transport (spec §6.4): a
// tagged union of Request/Response/Notification messages, length-prefixed
// over a websocket connection, with payloads encoded as Ion binary (the
// pack's nearest analogue to the original's compact bincode framing).
package ipc

// MessageKind tags which arm of the Request/Response/Notification union a
// Frame carries.
type MessageKind int

const (
	KindRequest MessageKind = iota
	KindResponse
	KindNotification
)

// Request asks the peer to invoke method with params, replying with a
// Response carrying the same Id.
type Request struct {
	Id     string
	Method string
	Params []byte // Ion-encoded command payload
}

// Response answers a prior Request. Error is set when the request failed;
// otherwise Result carries the reply payload, if the request has one.
type Response struct {
	RequestId string
	Result    []byte // Ion-encoded event/result payload
	Error     string
}

// Notification is a fire-and-forget message with no reply (e.g. a
// renderer-pushed FrameRendered event).
type Notification struct {
	Method string
	Params []byte
}

// Frame is the wire envelope: exactly one of Req/Resp/Note is populated,
// selected by Kind.
type Frame struct {
	Kind MessageKind
	Req  *Request
	Resp *Response
	Note *Notification
}
