package css

import (
	"testing"

	"github.com/wrenweb/wren/pkg/html"
)

func findByTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.TagName == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func computeFor(t *testing.T, htmlSrc, cssSrc, tag string) *ComputedStyle {
	t.Helper()
	doc := html.Parse(htmlSrc)
	p := findByTag(doc.Root, tag)
	if p == nil {
		t.Fatalf("no <%s> element found", tag)
	}
	sheets := []SheetRef{{Sheet: ParseStylesheet(cssSrc), Origin: OriginAuthor, Location: LocationEmbedded}}
	return Compute(p, nil, sheets, 16)
}

// Scenario 3 (spec §8): id beats class beats tag.
func TestCascadeSpecificityIDBeatsClassBeatsTag(t *testing.T) {
	htmlSrc := `<html><body><p id="x" class="c">hi</p></body></html>`
	cssSrc := `p { color: red } p.c { color: blue } #x { color: green }`

	cs := computeFor(t, htmlSrc, cssSrc, "p")
	got := cs.Color("color")
	want := Color{R: 0, G: 128, B: 0, A: 255}
	if got != want {
		t.Fatalf("computed color = %+v, want %+v (green)", got, want)
	}
}

// Boundary behavior (spec §8): border-width forced to 0 when style is
// none.
func TestBorderWidthZeroWhenStyleNone(t *testing.T) {
	htmlSrc := `<html><body><div id="x">hi</div></body></html>`
	cssSrc := `#x { border-width: 2px; border-style: none; }`

	cs := computeFor(t, htmlSrc, cssSrc, "div")
	if got := cs.Px("border-top-width"); got != 0 {
		t.Fatalf("border-top-width = %v, want 0 when border-style is none", got)
	}
}

// Boundary behavior (spec §8): an invalid 5-value margin declaration is
// discarded wholesale, leaving margin at its initial value (0).
func TestInvalidMarginDeclarationDiscarded(t *testing.T) {
	htmlSrc := `<html><body><div id="x">hi</div></body></html>`
	cssSrc := `#x { margin: 1px 2px 3px 4px 5px; }`

	cs := computeFor(t, htmlSrc, cssSrc, "div")
	if got := cs.Px("margin-top"); got != 0 {
		t.Fatalf("margin-top = %v, want 0 (invalid shorthand discarded)", got)
	}
}

// Round-trip property (spec §8): shorthand expansion followed by longhand
// cascade equals direct longhand cascade for the same winner.
func TestShorthandExpansionMatchesDirectLonghand(t *testing.T) {
	htmlSrc := `<html><body><div id="x">hi</div></body></html>`

	viaShorthand := computeFor(t, htmlSrc, `#x { border: 2px solid red; }`, "div")
	viaLonghand := computeFor(t, htmlSrc, `
		#x {
			border-top-width: 2px; border-right-width: 2px; border-bottom-width: 2px; border-left-width: 2px;
			border-top-style: solid; border-right-style: solid; border-bottom-style: solid; border-left-style: solid;
			border-top-color: red; border-right-color: red; border-bottom-color: red; border-left-color: red;
		}`, "div")

	for _, side := range []string{"top", "right", "bottom", "left"} {
		wProp, sProp, cProp := "border-"+side+"-width", "border-"+side+"-style", "border-"+side+"-color"
		if viaShorthand.Px(wProp) != viaLonghand.Px(wProp) {
			t.Errorf("%s: shorthand=%v longhand=%v", wProp, viaShorthand.Px(wProp), viaLonghand.Px(wProp))
		}
		if viaShorthand.Keyword(sProp) != viaLonghand.Keyword(sProp) {
			t.Errorf("%s: shorthand=%v longhand=%v", sProp, viaShorthand.Keyword(sProp), viaLonghand.Keyword(sProp))
		}
		if viaShorthand.Color(cProp) != viaLonghand.Color(cProp) {
			t.Errorf("%s: shorthand=%v longhand=%v", cProp, viaShorthand.Color(cProp), viaLonghand.Color(cProp))
		}
	}
}

// Cascade is a total function (spec §8): every recognized property
// resolves to exactly one value, even with no matching rules at all.
func TestCascadeIsTotalWithNoRules(t *testing.T) {
	doc := html.Parse(`<html><body><div id="x">hi</div></body></html>`)
	div := findByTag(doc.Root, "div")
	cs := Compute(div, nil, nil, 16)
	for _, name := range propertyOrder {
		if _, ok := cs.values[name]; !ok {
			t.Fatalf("property %q missing from computed style", name)
		}
	}
}
