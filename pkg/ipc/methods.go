package ipc

// Method names for the renderer's command/event surface (spec §6.1/§6.2),
// shared between the kernel and renderer sides of a Conn.
const (
	MethodLoadHTML          = "LoadHTML"
	MethodViewportResize    = "ViewportResize"
	MethodScroll            = "Scroll"
	MethodGetRenderedBitmap = "GetRenderedBitmap"

	MethodFrameRendered = "FrameRendered"
	MethodTitleChanged  = "TitleChanged"
	MethodURLChanged    = "URLChanged"
	MethodRendererDied  = "RendererDied"
)
