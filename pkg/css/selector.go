package css

import "strings"

// SimpleSelectorType enumerates the simple-selector kinds the matcher
// understands. Pseudo-classes/elements are out of scope (no scripting, no
// interaction state), per spec.md's Non-goals.
type SimpleSelectorType int

const (
	SimpleUniversal SimpleSelectorType = iota
	SimpleType
	SimpleClass
	SimpleID
	SimpleAttrPresence
	SimpleAttrEquals
)

// SimpleSelector is one atom of a compound sequence, e.g. `.foo`, `#bar`,
// `div`, `[href]`, `[rel="stylesheet"]`.
type SimpleSelector struct {
	Type  SimpleSelectorType
	Value string // tag/class/id/attribute name
	Attr  string // attribute value, for SimpleAttrEquals
}

// Combinator connects two compound sequences within a Selector (spec
// §GLOSSARY: "non-empty sequence of (SimpleSelectorSequence, Combinator?)
// pairs").
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
)

// SelectorStep is one compound sequence plus the combinator that connects
// it to the *next* step (the one closer to the subject). The last step's
// Combinator is CombinatorNone.
type SelectorStep struct {
	Simple     []SimpleSelector
	Combinator Combinator
}

// Selector is the full compound-sequence chain, Steps[len-1] being the
// rightmost (subject) compound.
type Selector struct {
	Steps []SelectorStep
	Spec  Specificity
}

// Specificity is the (a, b, c) lexicographic triple from spec.md's
// GLOSSARY. Per an explicit Open Question resolution (DESIGN.md), c counts
// only type selectors — there's no pseudo-element support to share the
// bucket with.
type Specificity struct {
	A, B, C int
}

// Less reports whether s is weaker than o under lexicographic (a,b,c)
// comparison.
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

func (s *SimpleSelector) addSpecificity(sp *Specificity) {
	switch s.Type {
	case SimpleID:
		sp.A++
	case SimpleClass, SimpleAttrPresence, SimpleAttrEquals:
		sp.B++
	case SimpleType:
		sp.C++
	}
}

// ParseSelectorList splits a comma-separated selector-list prelude into
// individual Selectors.
func ParseSelectorList(tokens []Token) []Selector {
	groups := splitOnComma(tokens)
	var out []Selector
	for _, g := range groups {
		if sel, ok := parseSelector(g); ok {
			out = append(out, sel)
		}
	}
	return out
}

func splitOnComma(tokens []Token) [][]Token {
	var groups [][]Token
	var cur []Token
	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case TLBracket, TFunction, TLParen:
			depth++
		case TRBracket, TRParen:
			depth--
		}
		if t.Type == TComma && depth == 0 {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

// parseSelector parses one (non-comma-separated) selector string, given as
// its component-value tokens, into a compound-sequence/combinator chain.
func parseSelector(tokens []Token) (Selector, bool) {
	tokens = trimWS(tokens)
	if len(tokens) == 0 {
		return Selector{}, false
	}

	var steps []SelectorStep
	var cur []SimpleSelector
	i := 0
	sawSimple := false

	flush := func(comb Combinator) {
		if !sawSimple {
			return
		}
		steps = append(steps, SelectorStep{Simple: cur, Combinator: comb})
		cur = nil
		sawSimple = false
	}

	for i < len(tokens) {
		t := tokens[i]
		switch t.Type {
		case TWhitespace:
			// Whitespace only matters as a descendant combinator if no
			// explicit combinator follows; peek past it.
			j := i + 1
			for j < len(tokens) && tokens[j].Type == TWhitespace {
				j++
			}
			if j < len(tokens) && isCombinatorToken(tokens[j]) {
				i = j
				continue
			}
			if sawSimple {
				flush(CombinatorDescendant)
			}
			i++
		case TDelim:
			switch t.Delim {
			case '.':
				i++
				if i < len(tokens) && tokens[i].Type == TIdent {
					cur = append(cur, SimpleSelector{Type: SimpleClass, Value: tokens[i].Value})
					sawSimple = true
					i++
				}
			case '*':
				cur = append(cur, SimpleSelector{Type: SimpleUniversal})
				sawSimple = true
				i++
			case '>':
				flush(CombinatorChild)
				i++
			case '+':
				flush(CombinatorNextSibling)
				i++
			case '~':
				flush(CombinatorSubsequentSibling)
				i++
			default:
				i++
			}
		case THash:
			cur = append(cur, SimpleSelector{Type: SimpleID, Value: t.Value})
			sawSimple = true
			i++
		case TIdent:
			cur = append(cur, SimpleSelector{Type: SimpleType, Value: strings.ToLower(t.Value)})
			sawSimple = true
			i++
		case TLBracket:
			attr, consumed := parseAttrSelector(tokens[i:])
			cur = append(cur, attr)
			sawSimple = true
			i += consumed
		default:
			i++
		}
	}
	flush(CombinatorNone)
	if len(steps) == 0 {
		return Selector{}, false
	}

	var spec Specificity
	for _, st := range steps {
		for j := range st.Simple {
			st.Simple[j].addSpecificity(&spec)
		}
	}
	return Selector{Steps: steps, Spec: spec}, true
}

func isCombinatorToken(t Token) bool {
	return t.Type == TDelim && (t.Delim == '>' || t.Delim == '+' || t.Delim == '~')
}

// parseAttrSelector parses `[name]` or `[name=value]` / `[name="value"]`
// starting at tokens[0] == TLBracket; returns the selector plus how many
// tokens (including brackets) it consumed.
func parseAttrSelector(tokens []Token) (SimpleSelector, int) {
	i := 1 // skip '['
	for i < len(tokens) && tokens[i].Type == TWhitespace {
		i++
	}
	if i >= len(tokens) || tokens[i].Type != TIdent {
		return SimpleSelector{Type: SimpleAttrPresence}, closingBracket(tokens)
	}
	name := tokens[i].Value
	i++
	for i < len(tokens) && tokens[i].Type == TWhitespace {
		i++
	}
	if i >= len(tokens) || !(tokens[i].Type == TDelim && tokens[i].Delim == '=') {
		return SimpleSelector{Type: SimpleAttrPresence, Value: name}, closingBracket(tokens)
	}
	i++
	for i < len(tokens) && tokens[i].Type == TWhitespace {
		i++
	}
	var val string
	if i < len(tokens) {
		switch tokens[i].Type {
		case TString:
			val = tokens[i].StringValue
		case TIdent:
			val = tokens[i].Value
		}
	}
	return SimpleSelector{Type: SimpleAttrEquals, Value: name, Attr: val}, closingBracket(tokens)
}

func closingBracket(tokens []Token) int {
	for i, t := range tokens {
		if t.Type == TRBracket {
			return i + 1
		}
	}
	return len(tokens)
}

func trimWS(tokens []Token) []Token {
	start := 0
	for start < len(tokens) && tokens[start].Type == TWhitespace {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].Type == TWhitespace {
		end--
	}
	return tokens[start:end]
}
