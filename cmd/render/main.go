// Command render is the renderer subprocess entry point (spec §6.5):
// `render --id <id>` connects to the kernel over the IPC transport,
// completes the SYN/SYN-ACK/ACK handshake, and then drains Requests from
// the kernel until the connection closes.
package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wrenweb/wren/internal/obslog"
	"github.com/wrenweb/wren/pkg/ipc"
	"github.com/wrenweb/wren/pkg/paint/ggpainter"
	"github.com/wrenweb/wren/pkg/pipeline"
)

func main() {
	var id, connect string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Renderer subprocess: connects to a kernel over IPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewProduction()
			obslog.SetLogger(logger)

			u, err := url.Parse(connect)
			if err != nil {
				return fmt.Errorf("invalid --connect %q: %w", connect, err)
			}
			ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
			if err != nil {
				return fmt.Errorf("dial kernel: %w", err)
			}
			defer ws.Close()

			conn := ipc.NewConn(ws)
			if id != "" {
				conn.RendererId = id
			}
			if err := ipc.RendererHandshake(conn); err != nil {
				return fmt.Errorf("handshake: %w", err)
			}

			newRasterizer := func(w, h int) pipeline.Rasterizer { return ggpainter.New(w, h) }
			p := pipeline.New(newRasterizer, 800, 600)

			return serve(conn, p)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "renderer id to offer during the handshake (a fresh one is generated if omitted)")
	cmd.Flags().StringVar(&connect, "connect", "ws://127.0.0.1:9000/renderer", "kernel websocket URL to dial")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve loops receiving Requests, dispatching them to the pipeline, and
// replying with a Response carrying the matching request id plus one
// Notification per additional Event the command produced.
func serve(conn *ipc.Conn, p *pipeline.Pipeline) error {
	for {
		frame, err := conn.RecvFrame()
		if err != nil {
			obslog.L().Sugar().Errorw("ipc read failed, renderer exiting", "error", err)
			return err
		}
		if frame.Kind != ipc.KindRequest {
			continue
		}
		handleRequest(conn, p, frame.Req)
	}
}

func handleRequest(conn *ipc.Conn, p *pipeline.Pipeline, req *ipc.Request) {
	cmd, err := decodeCommand(req)
	if err != nil {
		conn.SendFrame(ipc.Frame{Kind: ipc.KindResponse, Resp: &ipc.Response{RequestId: req.Id, Error: err.Error()}})
		return
	}

	events := p.Dispatch(cmd)

	var resultPayload []byte
	for _, ev := range events {
		payload, err := ipc.EncodePayload(ev)
		if err != nil {
			continue
		}
		if isReplyEvent(req.Method, ev) {
			resultPayload = payload
			continue
		}
		conn.SendFrame(ipc.Frame{Kind: ipc.KindNotification, Note: &ipc.Notification{Method: eventMethod(ev), Params: payload}})
	}
	conn.SendFrame(ipc.Frame{Kind: ipc.KindResponse, Resp: &ipc.Response{RequestId: req.Id, Result: resultPayload}})
}

func decodeCommand(req *ipc.Request) (pipeline.Command, error) {
	switch req.Method {
	case ipc.MethodLoadHTML:
		var c pipeline.LoadHTML
		return c, ipc.DecodePayload(req.Params, &c)
	case ipc.MethodViewportResize:
		var c pipeline.ViewportResize
		return c, ipc.DecodePayload(req.Params, &c)
	case ipc.MethodScroll:
		var c pipeline.Scroll
		return c, ipc.DecodePayload(req.Params, &c)
	case ipc.MethodGetRenderedBitmap:
		var c pipeline.GetRenderedBitmap
		return c, ipc.DecodePayload(req.Params, &c)
	default:
		return nil, fmt.Errorf("render: unknown method %q", req.Method)
	}
}

func isReplyEvent(method string, ev pipeline.Event) bool {
	_, ok := ev.(pipeline.RenderedBitmap)
	return method == ipc.MethodGetRenderedBitmap && ok
}

func eventMethod(ev pipeline.Event) string {
	switch ev.(type) {
	case pipeline.FrameRendered:
		return ipc.MethodFrameRendered
	case pipeline.TitleChanged:
		return ipc.MethodTitleChanged
	case pipeline.URLChanged:
		return ipc.MethodURLChanged
	case pipeline.RendererDied:
		return ipc.MethodRendererDied
	default:
		return "unknown"
	}
}
