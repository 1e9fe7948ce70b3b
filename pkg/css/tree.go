package css

import (
	"fmt"
	"strings"

	"github.com/wrenweb/wren/pkg/html"
)

// StyleCache deduplicates identical ComputedStyle rows across a document's
// nodes (spec §9's "style value identity and cache": an interior-mutable
// map from a canonical value to a shared handle, mutated only during
// cascade). It is per-document and cheap: siblings sharing a tag, class
// list, and inherited context very often compute byte-identical rows.
type StyleCache struct {
	byKey map[string]*ComputedStyle
}

// NewStyleCache creates an empty cache, one per Document.
func NewStyleCache() *StyleCache {
	return &StyleCache{byKey: make(map[string]*ComputedStyle)}
}

func (c *StyleCache) intern(cs *ComputedStyle) *ComputedStyle {
	key := cs.canonicalKey()
	if shared, ok := c.byKey[key]; ok {
		return shared
	}
	c.byKey[key] = cs
	return cs
}

// canonicalKey renders a ComputedStyle as a stable string so structurally
// identical rows hash/compare equal regardless of map iteration order.
func (c *ComputedStyle) canonicalKey() string {
	var sb strings.Builder
	for _, name := range propertyOrder {
		v := c.values[name]
		fmt.Fprintf(&sb, "%s=%d:%s:%g:%g:%08x;", name, v.Kind, v.Keyword, v.Amount, v.Px, colorBits(v.Color))
	}
	return sb.String()
}

func colorBits(c Color) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// ComputeTree computes every element's ComputedStyle in a single top-down
// walk from doc's root, materializing spec §3.3's computed-value table
// (built once per layout pass) as an element→*ComputedStyle map, deduped
// through a StyleCache. Non-element nodes (text, comments) are skipped but
// still walked through, so their children continue to see the right
// parent style.
func ComputeTree(root *html.Node, sheets []SheetRef) map[*html.Node]*ComputedStyle {
	cache := NewStyleCache()
	styles := make(map[*html.Node]*ComputedStyle)
	var walk func(n *html.Node, parent *ComputedStyle, rootFontSize float64)
	walk = func(n *html.Node, parent *ComputedStyle, rootFontSize float64) {
		if n.Type == html.ElementNode {
			cs := cache.intern(Compute(n, parent, sheets, rootFontSize))
			styles[n] = cs
			if parent == nil {
				rootFontSize = cs.Px("font-size")
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, cs, rootFontSize)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, parent, rootFontSize)
		}
	}
	walk(root, nil, 16)
	return styles
}
