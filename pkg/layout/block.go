package layout

import cssx "github.com/wrenweb/wren/pkg/css"

// boxMetrics holds one box's resolved edge sizes before the horizontal
// auto-margin/width algorithm (spec §4.4.2) runs. An anonymous box (no
// ComputedStyle) gets every field's zero value plus width/height auto,
// matching spec §3.4: "its geometry is derived wholly from its children."
type boxMetrics struct {
	widthAuto, heightAuto, mlAuto, mrAuto       bool
	width, height                               float64
	marginLeft, marginRight                     float64
	marginTop, marginBottom                     float64
	paddingLeft, paddingRight                    float64
	paddingTop, paddingBottom                    float64
	borderLeft, borderRight, borderTop, borderBottom float64
}

func computeMetrics(style *cssx.ComputedStyle, cbWidth float64) boxMetrics {
	if style == nil {
		return boxMetrics{widthAuto: true, heightAuto: true}
	}
	var m boxMetrics
	m.widthAuto = style.IsAuto("width")
	m.heightAuto = style.IsAuto("height")
	m.mlAuto = style.IsAuto("margin-left")
	m.mrAuto = style.IsAuto("margin-right")
	if !m.widthAuto {
		m.width = style.ResolveLength("width", cbWidth)
	}
	if !m.heightAuto {
		m.height = style.ResolveLength("height", cbWidth)
	}
	if !m.mlAuto {
		m.marginLeft = style.ResolveLength("margin-left", cbWidth)
	}
	if !m.mrAuto {
		m.marginRight = style.ResolveLength("margin-right", cbWidth)
	}
	m.marginTop = style.ResolveLength("margin-top", cbWidth)
	m.marginBottom = style.ResolveLength("margin-bottom", cbWidth)
	m.paddingLeft = style.ResolveLength("padding-left", cbWidth)
	m.paddingRight = style.ResolveLength("padding-right", cbWidth)
	m.paddingTop = style.ResolveLength("padding-top", cbWidth)
	m.paddingBottom = style.ResolveLength("padding-bottom", cbWidth)
	m.borderLeft = style.Px("border-left-width")
	m.borderRight = style.Px("border-right-width")
	m.borderTop = style.Px("border-top-width")
	m.borderBottom = style.Px("border-bottom-width")
	return m
}

// resolveHorizontal implements CSS2.1 §10.3.3's block-level non-replaced
// width/margin resolution (spec §4.4.2), returning the resolved content
// width and left/right margins.
func resolveHorizontal(cbWidth float64, m boxMetrics) (width, marginLeft, marginRight float64) {
	fixed := m.paddingLeft + m.paddingRight + m.borderLeft + m.borderRight
	switch {
	case !m.widthAuto && !m.mlAuto && !m.mrAuto:
		marginLeft, marginRight = m.marginLeft, m.marginRight
		total := marginLeft + m.width + marginRight + fixed
		if total > cbWidth {
			marginRight = cbWidth - (marginLeft + m.width + fixed)
		}
		return m.width, marginLeft, marginRight
	case m.widthAuto:
		ml, mr := m.marginLeft, m.marginRight
		if m.mlAuto {
			ml = 0
		}
		if m.mrAuto {
			mr = 0
		}
		w := cbWidth - (ml + mr + fixed)
		if w < 0 {
			w = 0
			mr = cbWidth - (w + ml + fixed)
		}
		return w, ml, mr
	case m.mlAuto && m.mrAuto:
		diff := cbWidth - (m.width + fixed)
		if diff < 0 {
			diff = 0
		}
		return m.width, diff / 2, diff / 2
	case m.mlAuto:
		ml := cbWidth - (m.width + m.marginRight + fixed)
		return m.width, ml, m.marginRight
	case m.mrAuto:
		mr := cbWidth - (m.width + m.marginLeft + fixed)
		return m.width, m.marginLeft, mr
	default:
		return m.width, m.marginLeft, m.marginRight
	}
}

// Layout runs the full block formatting context over root (spec §4.4.2),
// given the viewport's content width/height as the initial containing
// block, then derives scroll metrics (spec §4.4.4).
func Layout(root *LayoutBox, viewportWidth, viewportHeight float64) {
	if root == nil {
		return
	}
	layoutBlockContainer(root, viewportWidth, 0, 0)
}

// layoutBlockContainer positions box (a BlockContainer or
// BoxAnonymousBlock) whose margin-box top-left is (x, y) in absolute
// coordinates, against a containing block of width cbWidth. Returns the
// box's resolved margin-box height, used by the caller to advance its own
// child cursor (spec §4.4.2's "each child's top equals the previous
// sibling's bottom").
func layoutBlockContainer(box *LayoutBox, cbWidth, x, y float64) float64 {
	box.AbsoluteX, box.AbsoluteY = x, y

	m := computeMetrics(box.Style, cbWidth)
	width, ml, mr := resolveHorizontal(cbWidth, m)

	box.Model.Margin = Edges{Top: m.marginTop, Right: mr, Bottom: m.marginBottom, Left: ml}
	box.Model.Border = Edges{Top: m.borderTop, Right: m.borderRight, Bottom: m.borderBottom, Left: m.borderLeft}
	box.Model.Padding = Edges{Top: m.paddingTop, Right: m.paddingRight, Bottom: m.paddingBottom, Left: m.paddingLeft}

	contentX := x + ml + m.borderLeft + m.paddingLeft
	contentY := y + m.marginTop + m.borderTop + m.paddingTop
	box.Model.Content = Rect{X: contentX, Y: contentY, W: width}

	var naturalHeight float64
	if len(box.Children) > 0 && isInlineLevel(box.Children[0]) {
		box.Lines = buildLineBoxes(box, width)
		naturalHeight = lineBoxesHeight(box.Lines)
	} else {
		childY := contentY
		for _, c := range box.Children {
			childY += layoutBlockContainer(c, width, contentX, childY)
		}
		naturalHeight = childY - contentY
	}

	box.ScrollHeight = naturalHeight
	contentHeight := naturalHeight
	if !m.heightAuto {
		contentHeight = m.height
	}
	box.Scrollable = !m.heightAuto && naturalHeight > m.height
	box.Model.Content.H = contentHeight

	return box.Model.MarginBox().H
}
