package layout

import (
	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"
)

// documentElement returns doc's root <html> element, the layout tree
// builder's entry point.
func documentElement(doc *html.Document) *html.Node {
	for c := doc.Root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.TagName == "html" {
			return c
		}
	}
	return nil
}

// Build runs the full pipeline stage this package owns (spec components
// I/J): compute every element's style, build the repaired box tree, then
// run the block/inline formatting contexts against the viewport. Returns
// nil if the document has no root element or it is display:none.
func Build(doc *html.Document, sheets []cssx.SheetRef, viewportWidth, viewportHeight float64) *LayoutBox {
	el := documentElement(doc)
	if el == nil {
		return nil
	}
	styles := cssx.ComputeTree(el, sheets)
	root := BuildTree(el, styles)
	if root == nil {
		return nil
	}
	Layout(root, viewportWidth, viewportHeight)
	return root
}

// Walk visits box and every descendant pre-order.
func Walk(box *LayoutBox, visit func(*LayoutBox)) {
	if box == nil {
		return
	}
	visit(box)
	for _, c := range box.Children {
		Walk(c, visit)
	}
}
