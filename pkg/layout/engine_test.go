package layout

import (
	"testing"

	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"
)

func buildWithCSS(t *testing.T, htmlSrc, cssSrc string, vw, vh float64) *LayoutBox {
	t.Helper()
	doc := html.Parse(htmlSrc)
	sheets := []cssx.SheetRef{{Sheet: cssx.ParseStylesheet(cssSrc), Origin: cssx.OriginAuthor, Location: cssx.LocationEmbedded}}
	root := Build(doc, sheets, vw, vh)
	if root == nil {
		t.Fatal("Build returned nil")
	}
	return root
}

// Scenario 4 (spec §8): anonymous block wrapping around mixed inline/block
// children.
func TestAnonymousBlockWrapping(t *testing.T) {
	htmlSrc := `<html><body><div id="x"><span>a</span><p>b</p><span>c</span></div></body></html>`
	cssSrc := `div, p { display: block; } span { display: inline; }`
	root := buildWithCSS(t, htmlSrc, cssSrc, 200, 200)

	var div *LayoutBox
	Walk(root, func(b *LayoutBox) {
		if b.Node != nil && b.Node.TagName == "div" {
			div = b
		}
	})
	if div == nil {
		t.Fatal("expected to find the outer div's LayoutBox")
	}
	if len(div.Children) != 3 {
		t.Fatalf("div has %d children, want 3 (anon, p, anon)", len(div.Children))
	}
	if div.Children[0].Kind != BoxAnonymousBlock {
		t.Errorf("child 0 kind = %v, want BoxAnonymousBlock", div.Children[0].Kind)
	}
	if div.Children[1].Node == nil || div.Children[1].Node.TagName != "p" {
		t.Errorf("child 1 is not the <p>")
	}
	if div.Children[2].Kind != BoxAnonymousBlock {
		t.Errorf("child 2 kind = %v, want BoxAnonymousBlock", div.Children[2].Kind)
	}
}

// Invariant (spec §8): padding_box == content + padding edges; border_box
// == padding_box + border edges.
func TestBoxModelInvariant(t *testing.T) {
	htmlSrc := `<html><body><div id="x">hi</div></body></html>`
	cssSrc := `div { display: block; width: 100px; padding: 10px; border: 2px solid black; }`
	root := buildWithCSS(t, htmlSrc, cssSrc, 200, 200)

	var div *LayoutBox
	Walk(root, func(b *LayoutBox) {
		if b.Node != nil && b.Node.TagName == "div" {
			div = b
		}
	})
	if div == nil {
		t.Fatal("expected to find the div")
	}
	pad := div.Model.PaddingBox()
	wantPadW := div.Model.Content.W + div.Model.Padding.Left + div.Model.Padding.Right
	if pad.W != wantPadW {
		t.Errorf("padding box width = %v, want %v", pad.W, wantPadW)
	}
	border := div.Model.BorderBox()
	wantBorderW := pad.W + div.Model.Border.Left + div.Model.Border.Right
	if border.W != wantBorderW {
		t.Errorf("border box width = %v, want %v", border.W, wantBorderW)
	}
}

// Invariant (spec §8): a child's absolute location equals its parent's
// content-box origin plus its offset in the parent.
func TestAbsoluteLocationMatchesParentOrigin(t *testing.T) {
	htmlSrc := `<html><body><div id="outer"><div id="inner">hi</div></div></body></html>`
	cssSrc := `div { display: block; }
	#outer { padding: 5px; margin: 3px; }`
	root := buildWithCSS(t, htmlSrc, cssSrc, 200, 200)

	var outer, inner *LayoutBox
	Walk(root, func(b *LayoutBox) {
		if b.Node == nil {
			return
		}
		switch id, _ := b.Node.GetAttribute("id"); id {
		case "outer":
			outer = b
		case "inner":
			inner = b
		}
	})
	if outer == nil || inner == nil {
		t.Fatal("expected both outer and inner boxes")
	}
	if inner.Model.Content.X != outer.Model.Content.X {
		t.Errorf("inner.x = %v, want %v (outer content origin)", inner.Model.Content.X, outer.Model.Content.X)
	}
	if inner.Model.Content.Y != outer.Model.Content.Y {
		t.Errorf("inner.y = %v, want %v (outer content origin)", inner.Model.Content.Y, outer.Model.Content.Y)
	}
}

// Boundary behavior (spec §8): text-align:center centers a single fragment
// shorter than its container.
func TestTextAlignCenter(t *testing.T) {
	htmlSrc := `<html><body><div id="x"><span>hi</span></div></body></html>`
	cssSrc := `div { display: block; width: 100px; text-align: center; } span { display: inline; }`
	root := buildWithCSS(t, htmlSrc, cssSrc, 200, 200)

	var div *LayoutBox
	Walk(root, func(b *LayoutBox) {
		if b.Node != nil && b.Node.TagName == "div" {
			div = b
		}
	})
	if div == nil || len(div.Lines) == 0 {
		t.Fatal("expected the div to have at least one line box")
	}
	line := div.Lines[0]
	if len(line.Fragments) == 0 {
		t.Fatal("expected at least one fragment")
	}
	frag := line.Fragments[0]
	wantX := (100 - frag.Size.W) / 2
	if frag.Offset.X != wantX {
		t.Errorf("fragment offset.x = %v, want %v (centered)", frag.Offset.X, wantX)
	}
}

// Invariant (spec §8): a block container whose children are inline has at
// least one LineBox.
func TestInlineChildrenProduceLineBoxes(t *testing.T) {
	htmlSrc := `<html><body><p id="x">Hello World</p></body></html>`
	cssSrc := `p { display: block; }`
	root := buildWithCSS(t, htmlSrc, cssSrc, 200, 200)

	var p *LayoutBox
	Walk(root, func(b *LayoutBox) {
		if b.Node != nil && b.Node.TagName == "p" {
			p = b
		}
	})
	if p == nil {
		t.Fatal("expected to find the <p>")
	}
	if len(p.Lines) == 0 {
		t.Fatal("expected at least one LineBox for inline content")
	}
}
