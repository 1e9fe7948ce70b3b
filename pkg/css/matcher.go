package css

import "github.com/wrenweb/wren/pkg/html"

// Matches reports whether node satisfies selector (spec §4.3.3): walk the
// selector right-to-left, tracking a "current element", and for each
// combinator step move to the appropriate related element before
// continuing the walk.
func Matches(node *html.Node, sel Selector) bool {
	if node.Type != html.ElementNode || len(sel.Steps) == 0 {
		return false
	}
	last := len(sel.Steps) - 1
	if !matchesCompound(node, sel.Steps[last].Simple) {
		return false
	}
	return matchChain(node, sel.Steps, last)
}

// matchChain walks the remaining steps (to the left of idx, which has
// already matched) against their combinator requirement.
func matchChain(node *html.Node, steps []SelectorStep, idx int) bool {
	if idx == 0 {
		return true
	}
	comb := steps[idx-1].Combinator
	prevSimple := steps[idx-1].Simple
	switch comb {
	case CombinatorDescendant:
		for anc := parentElement(node); anc != nil; anc = parentElement(anc) {
			if matchesCompound(anc, prevSimple) && matchChain(anc, steps, idx-1) {
				return true
			}
		}
		return false
	case CombinatorChild:
		p := parentElement(node)
		return p != nil && matchesCompound(p, prevSimple) && matchChain(p, steps, idx-1)
	case CombinatorNextSibling:
		s := prevElementSibling(node)
		return s != nil && matchesCompound(s, prevSimple) && matchChain(s, steps, idx-1)
	case CombinatorSubsequentSibling:
		for s := prevElementSibling(node); s != nil; s = prevElementSibling(s) {
			if matchesCompound(s, prevSimple) && matchChain(s, steps, idx-1) {
				return true
			}
		}
		return false
	}
	return false
}

func parentElement(n *html.Node) *html.Node {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return p
}

func prevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func matchesCompound(node *html.Node, simples []SimpleSelector) bool {
	for _, s := range simples {
		if !matchesSimple(node, s) {
			return false
		}
	}
	return true
}

func matchesSimple(node *html.Node, s SimpleSelector) bool {
	switch s.Type {
	case SimpleUniversal:
		return true
	case SimpleType:
		return node.TagName == s.Value
	case SimpleClass:
		return node.HasClass(s.Value)
	case SimpleID:
		id, ok := node.GetAttribute("id")
		return ok && id == s.Value
	case SimpleAttrPresence:
		_, ok := node.GetAttribute(s.Value)
		return ok
	case SimpleAttrEquals:
		v, ok := node.GetAttribute(s.Value)
		return ok && v == s.Attr
	}
	return false
}

// MatchingRules returns every (rule, selector) pair in sheet whose
// selector matches node, used by the cascade to collect declared values.
type RuleMatch struct {
	Rule     *StyleRule
	Selector Selector
}

func MatchingRules(node *html.Node, sheet *Stylesheet) []RuleMatch {
	var out []RuleMatch
	for i := range sheet.Rules {
		rule := &sheet.Rules[i]
		for _, sel := range rule.Selectors {
			if Matches(node, sel) {
				out = append(out, RuleMatch{Rule: rule, Selector: sel})
			}
		}
	}
	return out
}
