package html

import "github.com/derekparker/trie"

// namedRefs is a trie over the (unterminated, i.e. without a trailing ';')
// and terminated forms of the common named character references. A trie
// gives the NamedCharacterReference state exactly the operation it needs:
// longest-prefix match against everything consumed so far.
var namedRefs = buildNamedRefTrie()

// namedRefValue is the expansion of one matched entity name plus whether the
// name was written with a trailing semicolon (affects the "missing
// semicolon" parse-error reporting but not the expansion itself).
type namedRefValue struct {
	text          string
	withSemicolon bool
}

func buildNamedRefTrie() *trie.Trie {
	t := trie.New()
	for name, repl := range namedEntities {
		t.Add(name+";", repl)
		// Legacy entities also recognized without the trailing semicolon,
		// per the HTML5 "legacy" named-reference list (we only carry the
		// common subset here — see SPEC_FULL.md).
		if isLegacyWithoutSemicolon(name) {
			t.Add(name, repl)
		}
	}
	return t
}

func isLegacyWithoutSemicolon(name string) bool {
	switch name {
	case "amp", "lt", "gt", "quot", "nbsp", "copy", "reg", "apos":
		return true
	}
	return false
}

// namedEntities is a fixed, deliberately small table covering the entities
// that show up in ordinary markup; spec.md §4.1 only requires that *some*
// defined table back this state, not full HTML5 coverage (~2200 names).
var namedEntities = map[string]string{
	"amp":     "&",
	"lt":      "<",
	"gt":      ">",
	"quot":    "\"",
	"apos":    "'",
	"nbsp":    " ",
	"copy":    "©",
	"reg":     "®",
	"trade":   "™",
	"hellip":  "…",
	"mdash":   "—",
	"ndash":   "–",
	"lsquo":   "‘",
	"rsquo":   "’",
	"ldquo":   "“",
	"rdquo":   "”",
	"laquo":   "«",
	"raquo":   "»",
	"middot":  "·",
	"eacute":  "é",
	"egrave":  "è",
	"agrave":  "à",
	"uuml":    "ü",
	"ouml":    "ö",
	"auml":    "ä",
	"szlig":   "ß",
	"euro":    "€",
	"pound":   "£",
	"yen":     "¥",
	"cent":    "¢",
	"sect":    "§",
	"para":    "¶",
	"deg":     "°",
	"plusmn":  "±",
	"times":   "×",
	"divide":  "÷",
	"frac12":  "½",
	"frac14":  "¼",
	"frac34":  "¾",
	"larr":    "←",
	"rarr":    "→",
	"uarr":    "↑",
	"darr":    "↓",
	"bull":    "•",
	"dagger":  "†",
	"Dagger":  "‡",
	"permil":  "‰",
	"shy":     "­",
	"ensp":    " ",
	"emsp":    " ",
	"thinsp":  " ",
	"zwnj":    "‌",
	"zwj":     "‍",
	"lrm":     "‎",
	"rlm":     "‏",
}

// matchNamedRef matches the longest named reference starting at the
// stream's current position, without consuming unless a match is found.
// Returns ok=false if nothing matched.
func matchNamedRef(s *stream) (namedRefValue, bool) {
	start := s.pos
	best := -1
	var bestVal string
	for n := 1; n <= 32; n++ {
		end := start + n
		if end > len(s.runes) {
			break
		}
		candidate := string(s.runes[start:end])
		if node, ok := namedRefs.Find(candidate); ok {
			best = n
			bestVal, _ = node.Meta().(string)
		}
	}
	if best == -1 {
		return namedRefValue{}, false
	}
	matched := string(s.runes[start : start+best])
	s.pos = start + best
	return namedRefValue{text: bestVal, withSemicolon: matched[len(matched)-1] == ';'}, true
}
