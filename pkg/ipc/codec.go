package ipc

import (
	"github.com/amazon-ion/ion-go/ion"
)

// wireFrame is Frame's flattened Ion representation: encoding a tagged
// union as one Ion struct with blank fields for the two unused arms keeps
// decoding a single Unmarshal call.
type wireFrame struct {
	Kind          int
	ReqId         string `ion:"reqId"`
	ReqMethod     string `ion:"reqMethod"`
	ReqParams     []byte `ion:"reqParams"`
	RespRequestId string `ion:"respRequestId"`
	RespResult    []byte `ion:"respResult"`
	RespError     string `ion:"respError"`
	NoteMethod    string `ion:"noteMethod"`
	NoteParams    []byte `ion:"noteParams"`
}

// EncodeFrame serializes f to Ion binary.
func EncodeFrame(f Frame) ([]byte, error) {
	w := wireFrame{Kind: int(f.Kind)}
	switch f.Kind {
	case KindRequest:
		w.ReqId = f.Req.Id
		w.ReqMethod = f.Req.Method
		w.ReqParams = f.Req.Params
	case KindResponse:
		w.RespRequestId = f.Resp.RequestId
		w.RespResult = f.Resp.Result
		w.RespError = f.Resp.Error
	case KindNotification:
		w.NoteMethod = f.Note.Method
		w.NoteParams = f.Note.Params
	}
	return ion.MarshalBinary(w)
}

// DecodeFrame parses Ion binary produced by EncodeFrame.
func DecodeFrame(data []byte) (Frame, error) {
	var w wireFrame
	if err := ion.Unmarshal(data, &w); err != nil {
		return Frame{}, err
	}
	f := Frame{Kind: MessageKind(w.Kind)}
	switch f.Kind {
	case KindRequest:
		f.Req = &Request{Id: w.ReqId, Method: w.ReqMethod, Params: w.ReqParams}
	case KindResponse:
		f.Resp = &Response{RequestId: w.RespRequestId, Result: w.RespResult, Error: w.RespError}
	case KindNotification:
		f.Note = &Notification{Method: w.NoteMethod, Params: w.NoteParams}
	}
	return f, nil
}

// EncodePayload Ion-encodes an arbitrary command/event value for use as a
// Request/Response/Notification payload.
func EncodePayload(v any) ([]byte, error) {
	return ion.MarshalBinary(v)
}

// DecodePayload decodes an Ion-encoded payload into v.
func DecodePayload(data []byte, v any) error {
	return ion.Unmarshal(data, v)
}
