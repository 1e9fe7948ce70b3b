package ipc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialPair spins up a real websocket server (grounded on gorilla's
// Upgrader pattern) and returns two live Conns, one per side, connected
// to each other over loopback.
func dialPair(t *testing.T) (kernelSide, rendererSide *Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	serverDone := make(chan *Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverDone <- NewConn(ws)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientWS, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { clientWS.Close() })

	select {
	case kernelSide = <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server-side upgrade")
	}
	rendererSide = NewConn(clientWS)
	return kernelSide, rendererSide
}

func TestHandshakeEstablishesSharedRendererId(t *testing.T) {
	kernelSide, rendererSide := dialPair(t)
	defer kernelSide.Close()
	defer rendererSide.Close()

	rendererErr := make(chan error, 1)
	go func() { rendererErr <- RendererHandshake(rendererSide) }()

	if err := KernelHandshake(kernelSide); err != nil {
		t.Fatalf("KernelHandshake: %v", err)
	}
	if err := <-rendererErr; err != nil {
		t.Fatalf("RendererHandshake: %v", err)
	}

	if rendererSide.RendererId == "" {
		t.Fatal("renderer side did not mint an id")
	}
	if kernelSide.RendererId != rendererSide.RendererId {
		t.Fatalf("kernel adopted id %q, renderer offered %q", kernelSide.RendererId, rendererSide.RendererId)
	}
}

func TestRendererHandshakeRespectsPreSetId(t *testing.T) {
	kernelSide, rendererSide := dialPair(t)
	defer kernelSide.Close()
	defer rendererSide.Close()

	rendererSide.RendererId = "fixed-id-123"

	rendererErr := make(chan error, 1)
	go func() { rendererErr <- RendererHandshake(rendererSide) }()

	if err := KernelHandshake(kernelSide); err != nil {
		t.Fatalf("KernelHandshake: %v", err)
	}
	if err := <-rendererErr; err != nil {
		t.Fatalf("RendererHandshake: %v", err)
	}

	if rendererSide.RendererId != "fixed-id-123" {
		t.Fatalf("RendererHandshake overwrote a pre-set id: got %q", rendererSide.RendererId)
	}
	if kernelSide.RendererId != "fixed-id-123" {
		t.Fatalf("kernel adopted %q, want the pre-set id", kernelSide.RendererId)
	}
}
