package css

// Declaration is one `name: value` pair inside a rule's body.
type Declaration struct {
	Name      string
	Value     []Token // component values, whitespace-trimmed at the edges
	Important bool
}

// StyleRule is a selector list paired with its declaration list (spec
// §4.3.2). At-rules and rules the parser can't make sense of (malformed
// preludes) are dropped rather than aborting the sheet.
type StyleRule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is the flat, ordered list of rules a sheet parses to. Source
// order is preserved since the cascade's tie-break (§4.3.4 rule 4) depends
// on it.
type Stylesheet struct {
	Rules []StyleRule
}

// Location distinguishes where a declaration came from, feeding directly
// into cascade rule 2 (§4.3.4).
type Location int

const (
	LocationExternal Location = iota
	LocationEmbedded
	LocationInline
)

// Origin distinguishes UA/user/author stylesheets, feeding cascade rule 1.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)
