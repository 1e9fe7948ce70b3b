package ipc

import "testing"

func TestEncodeDecodeFrameRequestRoundTrip(t *testing.T) {
	params, err := EncodePayload("hello")
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	want := Frame{Kind: KindRequest, Req: &Request{Id: "r1", Method: MethodLoadHTML, Params: params}}

	data, err := EncodeFrame(want)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Kind != KindRequest || got.Req == nil {
		t.Fatalf("got = %+v, want a populated Request arm", got)
	}
	if got.Req.Id != want.Req.Id || got.Req.Method != want.Req.Method {
		t.Errorf("Req = %+v, want %+v", got.Req, want.Req)
	}
	var s string
	if err := DecodePayload(got.Req.Params, &s); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if s != "hello" {
		t.Errorf("payload = %q, want %q", s, "hello")
	}
}

func TestEncodeDecodeFrameResponseRoundTrip(t *testing.T) {
	want := Frame{Kind: KindResponse, Resp: &Response{RequestId: "r1", Error: "boom"}}
	data, err := EncodeFrame(want)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Kind != KindResponse || got.Resp == nil || got.Resp.Error != "boom" {
		t.Fatalf("got = %+v, want Resp.Error=boom", got)
	}
}

func TestEncodeDecodeFrameNotificationRoundTrip(t *testing.T) {
	want := Frame{Kind: KindNotification, Note: &Notification{Method: MethodTitleChanged}}
	data, err := EncodeFrame(want)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Kind != KindNotification || got.Note == nil || got.Note.Method != MethodTitleChanged {
		t.Fatalf("got = %+v, want Note.Method=%s", got, MethodTitleChanged)
	}
}

// Only the arm selected by Kind should carry data after a round trip; the
// other union arms stay nil rather than holding stale zero-value structs.
func TestDecodeFrameLeavesOtherArmsNil(t *testing.T) {
	data, err := EncodeFrame(Frame{Kind: KindRequest, Req: &Request{Id: "r1", Method: MethodScroll}})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Resp != nil || got.Note != nil {
		t.Fatalf("got Resp=%+v Note=%+v, want both nil", got.Resp, got.Note)
	}
}
