package css

import "github.com/wrenweb/wren/pkg/html"

// ComputedStyle is the element→(property→value) row the spec's §3.3
// materializes once per layout pass: every recognized property's
// computed value for one element.
type ComputedStyle struct {
	values map[string]Value
}

func newComputedStyle() *ComputedStyle {
	return &ComputedStyle{values: make(map[string]Value, len(propertyOrder))}
}

// Get returns the computed value of a recognized property, or the zero
// Value if name isn't recognized.
func (c *ComputedStyle) Get(name string) Value {
	return c.values[name]
}

// Keyword is a convenience accessor for keyword-typed properties like
// `display` and `text-align`.
func (c *ComputedStyle) Keyword(name string) string {
	return c.values[name].Keyword
}

// Px is a convenience accessor for length-typed properties once resolved
// to absolute pixels.
func (c *ComputedStyle) Px(name string) float64 {
	return c.values[name].Px
}

// Color is a convenience accessor for color-typed properties.
func (c *ComputedStyle) Color(name string) Color {
	return c.values[name].Color
}

// IsAuto reports whether a property's computed value is the `auto`
// keyword (used throughout §4.4's box-metric resolution).
func (c *ComputedStyle) IsAuto(name string) bool {
	v := c.values[name]
	return v.Kind == VKeyword && v.Keyword == "auto"
}

// ResolveLength resolves a length-or-percentage property against a
// containing-block size known only at layout time (spec §4.4.2/§4.4.3):
// percentages resolve here rather than at computed-value time, since the
// spec materializes computed values once per layout pass but percentages
// on box-model properties are resolved per containing block.
func (c *ComputedStyle) ResolveLength(name string, containingSize float64) float64 {
	v := c.values[name]
	switch v.Kind {
	case VPercentage:
		return v.Amount * containingSize / 100
	case VLength:
		return v.Px
	}
	return 0
}

// declaredValue is one matched declaration plus the cascade-ordering
// metadata the sort in §4.3.4 needs.
type declaredValue struct {
	value     []Token
	important bool
	origin    Origin
	location  Location
	spec      Specificity
	order     int // source order within the combined declaration list
}

// cascadeRank packs a declaredValue's precedence into a single comparable
// tuple per spec §4.3.4's four-rule total order. Greater ranks win.
type cascadeRank struct {
	importanceOrigin int // higher wins: Important UA > ... > Normal UA
	location         int
	spec             Specificity
	order            int
}

func (d declaredValue) rank() cascadeRank {
	return cascadeRank{
		importanceOrigin: importanceOriginRank(d.important, d.origin),
		location:         int(d.location),
		spec:             d.spec,
		order:            d.order,
	}
}

// importanceOriginRank encodes spec §4.3.4 rule 1's precedence order:
// Important UA(6) > Important User(5) > Important Author(4) >
// Normal Author(3) > Normal User(2) > Normal UA(1).
func importanceOriginRank(important bool, origin Origin) int {
	base := map[Origin]int{OriginUserAgent: 1, OriginUser: 2, OriginAuthor: 3}[origin]
	if important {
		// Flip the origin order under !important: UA > User > Author.
		base = map[Origin]int{OriginUserAgent: 6, OriginUser: 5, OriginAuthor: 4}[origin]
	}
	return base
}

func (r cascadeRank) less(o cascadeRank) bool {
	if r.importanceOrigin != o.importanceOrigin {
		return r.importanceOrigin < o.importanceOrigin
	}
	if r.location != o.location {
		return r.location < o.location
	}
	if r.spec.A != o.spec.A || r.spec.B != o.spec.B || r.spec.C != o.spec.C {
		return r.spec.Less(o.spec)
	}
	return r.order < o.order
}

// SheetRef is one attached stylesheet plus its cascade-origin and
// cascade-location tags (spec §3.2).
type SheetRef struct {
	Sheet    *Stylesheet
	Origin   Origin
	Location Location
}

func expandIfShorthand(d Declaration) []Declaration {
	if isShorthand(d.Name) {
		return expandDeclaration(d)
	}
	return []Declaration{d}
}

// collectDeclaredByProperty groups collectDeclared's output by longhand
// property name, discarding anything unrecognized (spec §7's "Unsupported"
// error kind: the declaration is discarded).
func collectDeclaredByProperty(node *html.Node, sheets []SheetRef) map[string][]declaredValue {
	byProp := make(map[string][]declaredValue)
	for _, ref := range sheets {
		for i := range ref.Sheet.Rules {
			rule := &ref.Sheet.Rules[i]
			for _, sel := range rule.Selectors {
				if !Matches(node, sel) {
					continue
				}
				for _, decl := range rule.Declarations {
					if !isRecognized(decl.Name) {
						continue
					}
					byProp[decl.Name] = append(byProp[decl.Name], declaredValue{
						value: decl.Value, important: decl.Important,
						origin: ref.Origin, location: ref.Location,
						spec: sel.Spec,
					})
				}
			}
		}
	}
	if node.Type == html.ElementNode {
		if inline, ok := node.GetAttribute("style"); ok {
			for _, decl := range ParseDeclarationList(inline) {
				for _, ld := range expandIfShorthand(decl) {
					if !isRecognized(ld.Name) {
						continue
					}
					byProp[ld.Name] = append(byProp[ld.Name], declaredValue{
						value: ld.Value, important: ld.Important,
						origin: OriginAuthor, location: LocationInline,
						spec: Specificity{},
					})
				}
			}
		}
	}
	// Source order must be assigned globally across the whole candidate
	// set per property, matching the order declarations were discovered.
	for _, list := range byProp {
		for i := range list {
			list[i].order = i
		}
	}
	return byProp
}

// cascadedValue picks the winner among property's matched declarations per
// spec §4.3.4's total order (max rank wins).
func cascadedValue(candidates []declaredValue) ([]Token, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if best.rank().less(c.rank()) {
			best = c
		}
	}
	return best.value, true
}

// Compute produces node's ComputedStyle (spec §3.3/§4.3.6): cascaded value
// if present, else inheritance, else initial; CSS-wide keywords honored;
// units resolved to absolute pixels. rootFontSizePx is the document root
// element's already-computed font-size, used to resolve `rem` lengths.
func Compute(node *html.Node, parent *ComputedStyle, sheets []SheetRef, rootFontSizePx float64) *ComputedStyle {
	byProp := collectDeclaredByProperty(node, sheets)
	cs := newComputedStyle()

	for _, name := range propertyOrder {
		info := properties[name]
		var specified Value
		if tokens, ok := cascadedValue(byProp[name]); ok {
			specified = resolveWideKeyword(tokens, name, info, parent, cs)
		} else if info.Inherited && parent != nil {
			specified = parent.Get(name)
		} else {
			specified = info.Initial
		}
		cs.values[name] = computeProperty(name, specified, parent, rootFontSizePx)
	}
	// border-*-width forced to 0 when the corresponding style is
	// none/hidden (spec §3.3/§4.3.6), applied after every longhand is in
	// place so the style->width dependency always sees the final style.
	for i, widthProp := range borderWidthProps {
		styleProp := borderStyleProps[i]
		kw := cs.Keyword(styleProp)
		if kw == "none" || kw == "hidden" {
			v := cs.values[widthProp]
			v.Px = 0
			cs.values[widthProp] = v
		}
	}
	return cs
}

// resolveWideKeyword honors `initial`/`inherit`/`unset` at the cascaded
// stage (spec §3.3 step 3) before the value reaches computeProperty.
func resolveWideKeyword(tokens []Token, name string, info propertyInfo, parent *ComputedStyle, cs *ComputedStyle) Value {
	v := parseValue(tokens)
	if v.Kind != VKeyword {
		return v
	}
	switch v.Keyword {
	case "initial":
		return info.Initial
	case "inherit":
		if parent != nil {
			return parent.Get(name)
		}
		return info.Initial
	case "unset":
		if info.Inherited && parent != nil {
			return parent.Get(name)
		}
		return info.Initial
	}
	return v
}

// computeProperty resolves a specified value to its computed form (spec
// §4.3.6): em/rem/percentage-in-font-size resolve against the parent's
// (or root's) computed font-size.
func computeProperty(name string, v Value, parent *ComputedStyle, rootFontSizePx float64) Value {
	switch v.Kind {
	case VLength:
		switch v.Unit {
		case "em":
			base := 16.0
			if parent != nil {
				base = parent.Px("font-size")
			}
			v.Px = v.Amount * base
		case "rem":
			v.Px = v.Amount * rootFontSizePx
		case "px", "":
			v.Px = v.Amount
		default:
			v.Px = v.Amount // unsupported absolute units treated as px
		}
	case VPercentage:
		if name == "font-size" {
			base := 16.0
			if parent != nil {
				base = parent.Px("font-size")
			}
			px := v.Amount * base / 100
			return Value{Kind: VLength, Unit: "px", Amount: px, Px: px}
		}
		// Percentages on other properties resolve against a containing
		// block known only at layout time; keep as VPercentage and let
		// the layout engine resolve it against the actual containing
		// width/height.
	}
	return v
}
