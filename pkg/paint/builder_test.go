package paint

import (
	"testing"

	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"
	"github.com/wrenweb/wren/pkg/layout"
)

func buildDisplayList(t *testing.T, htmlSrc, cssSrc string, vw, vh float64) DisplayList {
	t.Helper()
	doc := html.Parse(htmlSrc)
	sheets := []cssx.SheetRef{{Sheet: cssx.ParseStylesheet(cssSrc), Origin: cssx.OriginAuthor, Location: cssx.LocationEmbedded}}
	root := layout.Build(doc, sheets, vw, vh)
	if root == nil {
		t.Fatal("layout.Build returned nil")
	}
	return Build(root, vw, vh)
}

// Scenario 1 (spec §8): a single sized+colored div produces a 100x50 red
// FillRect over its padding box.
func TestSimpleBlockProducesExpectedFillRect(t *testing.T) {
	htmlSrc := `<html><body><div id="x" style="width:100px;height:50px;background:red"></div></body></html>`
	dl := buildDisplayList(t, htmlSrc, `div{display:block}`, 200, 200)

	var found bool
	for _, cmd := range dl.Commands {
		fr, ok := cmd.(FillRect)
		if !ok {
			continue
		}
		if fr.Rect.W == 100 && fr.Rect.H == 50 && fr.Color == (cssx.Color{R: 255, A: 255}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a FillRect(100x50, red) in the display list, got %+v", dl.Commands)
	}
}

// Scenario 5 (spec §8): border shorthand expands to all four sides with
// matching width/style/color, so FillBorder carries all four sides.
func TestBorderShorthandProducesAllFourSides(t *testing.T) {
	htmlSrc := `<html><body><div id="x" style="width:50px;height:50px;border:2px solid red"></div></body></html>`
	dl := buildDisplayList(t, htmlSrc, `div{display:block}`, 200, 200)

	var border *FillBorder
	for _, cmd := range dl.Commands {
		if fb, ok := cmd.(FillBorder); ok {
			border = &fb
		}
	}
	if border == nil {
		t.Fatal("expected a FillBorder command")
	}
	for _, side := range []*BorderSide{border.Sides.Top, border.Sides.Right, border.Sides.Bottom, border.Sides.Left} {
		if side == nil {
			t.Fatal("expected all four border sides to be populated")
		}
		if side.Width != 2 || side.Color != (cssx.Color{R: 255, A: 255}) {
			t.Errorf("side = %+v, want width 2 and red", side)
		}
	}
}

// Round-trip property (spec §8): running the full pipeline twice on
// unchanged input produces byte-identical display lists.
func TestPipelineDeterminism(t *testing.T) {
	htmlSrc := `<html><body><div style="width:100px;height:50px;background:blue">hi there</div></body></html>`
	cssSrc := `div{display:block}`

	first := buildDisplayList(t, htmlSrc, cssSrc, 300, 300)
	second := buildDisplayList(t, htmlSrc, cssSrc, 300, 300)

	if len(first.Commands) != len(second.Commands) {
		t.Fatalf("command count differs: %d vs %d", len(first.Commands), len(second.Commands))
	}
	for i := range first.Commands {
		if first.Commands[i] != second.Commands[i] {
			t.Fatalf("command %d differs: %+v vs %+v", i, first.Commands[i], second.Commands[i])
		}
	}
}
