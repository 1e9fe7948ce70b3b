package css

import "strings"

// expandDeclaration expands a shorthand declaration into its longhand
// equivalents (spec §4.3.5), each inheriting the shorthand's importance.
// Declarations for properties that are neither recognized longhands nor
// shorthands pass through unchanged (and are later dropped by the cascade
// as unrecognized).
func expandDeclaration(d Declaration) []Declaration {
	if d.Name == "border-radius" {
		return expandBorderRadius(d)
	}
	longhands, ok := shorthandLonghands[d.Name]
	if !ok {
		return []Declaration{d}
	}
	groups := splitValueGroups(d.Value)
	if len(groups) == 0 {
		return nil // spec §8: a shorthand with no usable values is discarded
	}
	if len(longhands) == 1 {
		return []Declaration{{Name: longhands[0], Value: d.Value, Important: d.Important}}
	}
	if isBorderSideShorthand(d.Name) {
		return expandBorderSide(d, longhands, groups)
	}
	return expandBoxEdges(d, longhands, groups)
}

// isBorderSideShorthand reports whether name is `border-<side>` (as
// opposed to a box-edge family like `margin`/`padding`/`border-width`).
func isBorderSideShorthand(name string) bool {
	switch name {
	case "border-top", "border-right", "border-bottom", "border-left", "border":
		return true
	}
	return false
}

// expandBorderSide handles `border[-<side>]: <width> <style> <color>` in
// any order, matching each value-group token to the longhand it belongs to
// by token shape rather than position.
func expandBorderSide(d Declaration, longhands []string, groups [][]Token) []Declaration {
	var width, style, color []Token
	for _, g := range groups {
		switch classifyBorderValue(g) {
		case "width":
			width = g
		case "style":
			style = g
		case "color":
			color = g
		}
	}
	// border (the 4-side shorthand) repeats the same triple on all sides;
	// border-top etc. expand to exactly 3 longhands (width, style, color).
	if d.Name == "border" {
		var out []Declaration
		for _, side := range []string{"top", "right", "bottom", "left"} {
			if width != nil {
				out = append(out, Declaration{Name: "border-" + side + "-width", Value: width, Important: d.Important})
			}
			if style != nil {
				out = append(out, Declaration{Name: "border-" + side + "-style", Value: style, Important: d.Important})
			}
			if color != nil {
				out = append(out, Declaration{Name: "border-" + side + "-color", Value: color, Important: d.Important})
			}
		}
		return out
	}
	var out []Declaration
	for _, lh := range longhands {
		switch {
		case strings.HasSuffix(lh, "-width") && width != nil:
			out = append(out, Declaration{Name: lh, Value: width, Important: d.Important})
		case strings.HasSuffix(lh, "-style") && style != nil:
			out = append(out, Declaration{Name: lh, Value: style, Important: d.Important})
		case strings.HasSuffix(lh, "-color") && color != nil:
			out = append(out, Declaration{Name: lh, Value: color, Important: d.Important})
		}
	}
	return out
}

func classifyBorderValue(g []Token) string {
	g = trimWS(g)
	if len(g) == 0 {
		return ""
	}
	if len(g) == 1 && g[0].Type == TIdent {
		switch strings.ToLower(g[0].Value) {
		case "none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset":
			return "style"
		}
	}
	if g[0].Type == TDimension || (g[0].Type == TNumber && g[0].Number == 0) {
		return "width"
	}
	if g[0].Type == TIdent || g[0].Type == THash || g[0].Type == TFunction {
		return "color"
	}
	return ""
}

// expandBoxEdges implements the 1/2/3/4-value box-edge fan-out (spec
// §4.3.5) shared by margin/padding/border-width/border-style/border-color.
// longhands is always ordered [top, right, bottom, left].
func expandBoxEdges(d Declaration, longhands []string, groups [][]Token) []Declaration {
	var top, right, bottom, left []Token
	switch len(groups) {
	case 1:
		top, right, bottom, left = groups[0], groups[0], groups[0], groups[0]
	case 2:
		top, bottom = groups[0], groups[0]
		right, left = groups[1], groups[1]
	case 3:
		top = groups[0]
		right, left = groups[1], groups[1]
		bottom = groups[2]
	case 4:
		top, right, bottom, left = groups[0], groups[1], groups[2], groups[3]
	default:
		return nil // 5+ values: entire declaration is invalid (spec §8)
	}
	return []Declaration{
		{Name: longhands[0], Value: top, Important: d.Important},
		{Name: longhands[1], Value: right, Important: d.Important},
		{Name: longhands[2], Value: bottom, Important: d.Important},
		{Name: longhands[3], Value: left, Important: d.Important},
	}
}

// expandBorderRadius handles `border-radius: <h-list> [/ <v-list>]`,
// mirroring the box-edge fan-out per corner on each axis independently
// (spec §4.3.5).
func expandBorderRadius(d Declaration) []Declaration {
	hTokens, vTokens := splitOnSlash(d.Value)
	hGroups := splitValueGroups(hTokens)
	vGroups := hGroups
	if vTokens != nil {
		vGroups = splitValueGroups(vTokens)
	}
	if len(hGroups) == 0 {
		return nil
	}
	hCorners := fanOutFour(hGroups)
	vCorners := fanOutFour(vGroups)
	if hCorners == nil || vCorners == nil {
		return nil
	}
	var out []Declaration
	for i, lh := range borderRadiusProps {
		// Horizontal and vertical radii share one longhand slot in this
		// model (spec.md's data model has a single radius per corner);
		// when they differ we keep the horizontal value, matching the
		// common single-axis usage this core targets.
		v := hCorners[i]
		if len(v) == 0 {
			v = vCorners[i]
		}
		out = append(out, Declaration{Name: lh, Value: v, Important: d.Important})
	}
	return out
}

func fanOutFour(groups [][]Token) [][]Token {
	switch len(groups) {
	case 1:
		return [][]Token{groups[0], groups[0], groups[0], groups[0]}
	case 2:
		return [][]Token{groups[0], groups[1], groups[0], groups[1]}
	case 3:
		return [][]Token{groups[0], groups[1], groups[2], groups[1]}
	case 4:
		return [][]Token{groups[0], groups[1], groups[2], groups[3]}
	}
	return nil
}

func splitOnSlash(tokens []Token) (h, v []Token) {
	for i, t := range tokens {
		if t.Type == TDelim && t.Delim == '/' {
			return trimWS(tokens[:i]), trimWS(tokens[i+1:])
		}
	}
	return tokens, nil
}

// splitValueGroups splits a whitespace-separated value list into its
// individual component groups (one per space-delimited value).
func splitValueGroups(tokens []Token) [][]Token {
	var groups [][]Token
	var cur []Token
	for _, t := range tokens {
		if t.Type == TWhitespace {
			if len(cur) > 0 {
				groups = append(groups, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
