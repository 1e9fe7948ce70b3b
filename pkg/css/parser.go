package css

import (
	"github.com/wrenweb/wren/internal/obslog"
)

// Parser turns a token stream into a Stylesheet (spec §4.3.2). At-rules
// other than recognized ones are skipped wholesale (their prelude plus
// block) rather than aborting the sheet — a qualified-rule parser never
// fails fatally.
type Parser struct {
	toks   []Token
	pos    int
	Errors *obslog.ErrorList
}

// ParseStylesheet tokenizes and parses a full stylesheet's text.
func ParseStylesheet(src string) *Stylesheet {
	p := &Parser{toks: NewTokenizer(src).Tokens(), Errors: &obslog.ErrorList{}}
	return p.parseRules()
}

// ParseDeclarationList parses a `style="..."` attribute or the inside of a
// rule body (no selector, just declarations).
func ParseDeclarationList(src string) []Declaration {
	p := &Parser{toks: NewTokenizer(src).Tokens(), Errors: &obslog.ErrorList{}}
	return p.parseDeclarations(TEOF)
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) parseRules() *Stylesheet {
	sheet := &Stylesheet{}
	for p.cur().Type != TEOF {
		t := p.cur()
		switch t.Type {
		case TWhitespace, TCDO, TCDC:
			p.next()
		case TAtKeyword:
			p.skipAtRule()
		default:
			if rule, ok := p.parseQualifiedRule(); ok {
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
	return sheet
}

// skipAtRule consumes an at-rule's prelude and its block (if any). Every
// at-rule is skipped: the core has no @media/@import/@font-face support.
func (p *Parser) skipAtRule() {
	p.next() // the AtKeyword itself
	depth := 0
	for {
		t := p.cur()
		if t.Type == TEOF {
			return
		}
		if t.Type == TSemicolon && depth == 0 {
			p.next()
			return
		}
		if t.Type == TLBrace {
			depth++
			p.next()
			continue
		}
		if t.Type == TRBrace {
			if depth == 0 {
				return
			}
			depth--
			p.next()
			if depth == 0 {
				return
			}
			continue
		}
		p.next()
	}
}

// parseQualifiedRule consumes a prelude (up to '{') as the selector list
// and the brace-delimited body as declarations.
func (p *Parser) parseQualifiedRule() (StyleRule, bool) {
	var prelude []Token
	for {
		t := p.cur()
		if t.Type == TEOF {
			p.Errors.Add(cssError("unterminated rule prelude"))
			return StyleRule{}, false
		}
		if t.Type == TLBrace {
			p.next()
			break
		}
		prelude = append(prelude, p.next())
	}
	selectors := ParseSelectorList(prelude)
	decls := p.parseDeclarations(TRBrace)
	if p.cur().Type == TRBrace {
		p.next()
	}
	if len(selectors) == 0 {
		return StyleRule{}, false
	}
	return StyleRule{Selectors: selectors, Declarations: decls}, true
}

// parseDeclarations consumes `name: value [!important]? ;`-separated
// declarations until the given terminator token (TRBrace inside a rule
// body, TEOF for a standalone declaration list) or runs out of input.
func (p *Parser) parseDeclarations(terminator TokenType) []Declaration {
	var decls []Declaration
	for {
		for p.cur().Type == TWhitespace || p.cur().Type == TSemicolon {
			p.next()
		}
		if p.cur().Type == terminator || p.cur().Type == TEOF {
			return decls
		}
		if p.cur().Type == TAtKeyword {
			p.skipAtRule()
			continue
		}
		if p.cur().Type != TIdent {
			// Malformed declaration: skip to the next ';' or terminator.
			p.Errors.Add(cssError("expected property name"))
			p.skipToDeclarationEnd(terminator)
			continue
		}
		name := p.next().Value
		for p.cur().Type == TWhitespace {
			p.next()
		}
		if p.cur().Type != TColon {
			p.Errors.Add(cssError("expected ':' after property name"))
			p.skipToDeclarationEnd(terminator)
			continue
		}
		p.next() // ':'
		var value []Token
		for p.cur().Type != TSemicolon && p.cur().Type != terminator && p.cur().Type != TEOF {
			value = append(value, p.next())
		}
		value = trimWS(value)
		important := false
		if n := len(value); n >= 2 && value[n-1].Type == TIdent && equalFold(value[n-1].Value, "important") &&
			value[n-2].Type == TDelim && value[n-2].Delim == '!' {
			important = true
			value = trimWS(value[:n-2])
		}
		raw := Declaration{Name: lowerASCII(name), Value: value, Important: important}
		if isShorthand(raw.Name) {
			decls = append(decls, expandDeclaration(raw)...)
		} else {
			decls = append(decls, raw)
		}
	}
}

func (p *Parser) skipToDeclarationEnd(terminator TokenType) {
	for p.cur().Type != TSemicolon && p.cur().Type != terminator && p.cur().Type != TEOF {
		p.next()
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

type cssError string

func (e cssError) Error() string { return "css parser: " + string(e) }
