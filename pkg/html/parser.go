package html

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/wrenweb/wren/internal/obslog"
)

// imode is the tree constructor's current insertion mode (spec component
// C). Named after the modes spec.md lists explicitly, plus the two
// terminal ones needed to finish a well-formed document.
type imode int

const (
	modeInitial imode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeAfterHead
	modeInBody
	modeText
	modeAfterBody
	modeAfterAfterBody
)

var reformattingTags = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

// Parser drives the tokenizer through the insertion-mode state machine and
// builds a Document (spec component C).
type Parser struct {
	tok *Tokenizer
	doc *Document

	mode       imode
	origMode   imode // saved mode while in the Text insertion mode
	openStack  *arraystack.Stack
	activeFmt  *doublylinkedlist.List
	headElem   *Node
	framesetOK bool

	// reprocess holds a token the current mode decided to hand to a
	// different mode without consuming another one from the tokenizer.
	reprocess *Token

	Errors *obslog.ErrorList
}

// NewParser creates a tree constructor over the given HTML source.
func NewParser(input string) *Parser {
	return &Parser{
		tok:        NewTokenizer(input),
		doc:        NewDocument(),
		mode:       modeInitial,
		openStack:  arraystack.New(),
		activeFmt:  doublylinkedlist.New(),
		framesetOK: true,
		Errors:     &obslog.ErrorList{},
	}
}

// Document returns the Parser's in-progress Document, usable to install
// OnTitleChange before Parse runs so title changes are observed live
// during tree construction rather than only after it finishes.
func (p *Parser) Document() *Document {
	return p.doc
}

// Parse runs the tokenizer to completion and returns the built Document.
func Parse(input string) *Document {
	p := NewParser(input)
	return p.Parse()
}

func (p *Parser) Parse() *Document {
	for {
		var tok Token
		if p.reprocess != nil {
			tok = *p.reprocess
			p.reprocess = nil
		} else {
			tok = p.tok.NextToken()
		}
		p.Errors.Add(p.tok.Errors.Err())
		if tok.Type == TokenEOF {
			p.dispatch(tok)
			break
		}
		p.dispatch(tok)
	}
	return p.doc
}

func (p *Parser) dispatch(tok Token) {
	switch p.mode {
	case modeInitial:
		p.inInitial(tok)
	case modeBeforeHTML:
		p.inBeforeHTML(tok)
	case modeBeforeHead:
		p.inBeforeHead(tok)
	case modeInHead:
		p.inHead(tok)
	case modeAfterHead:
		p.inAfterHead(tok)
	case modeInBody:
		p.inBody(tok)
	case modeText:
		p.inText(tok)
	case modeAfterBody:
		p.inAfterBody(tok)
	case modeAfterAfterBody:
		p.inAfterAfterBody(tok)
	}
}

// --- stack helpers -------------------------------------------------------

func (p *Parser) currentNode() *Node {
	if top, ok := p.openStack.Peek(); ok {
		return top.(*Node)
	}
	return p.doc.Root
}

func (p *Parser) push(n *Node) { p.openStack.Push(n) }

func (p *Parser) pop() *Node {
	if top, ok := p.openStack.Pop(); ok {
		return top.(*Node)
	}
	return nil
}

func (p *Parser) popUntil(tag string) {
	for {
		n := p.pop()
		if n == nil || n.TagName == tag {
			return
		}
	}
}

func (p *Parser) hasInStack(tag string) bool {
	for _, v := range p.openStack.Values() {
		if v.(*Node).TagName == tag {
			return true
		}
	}
	return false
}

func (p *Parser) insertElement(tok Token) *Node {
	n := newElement(p.doc, tok.TagName, tok.Attributes)
	p.currentNode().AppendChild(n)
	p.push(n)
	return n
}

func (p *Parser) insertSelfContained(tok Token) *Node {
	n := newElement(p.doc, tok.TagName, tok.Attributes)
	p.currentNode().AppendChild(n)
	return n
}

func (p *Parser) insertText(s string) {
	if s == "" {
		return
	}
	parent := p.currentNode()
	if last := parent.LastChild; last != nil && last.Type == TextNode {
		last.Data += s
		if parent.TagName == "title" {
			p.doc.refreshTitle()
		}
		return
	}
	parent.AppendChild(newText(p.doc, s))
}

func (p *Parser) insertComment(data string) {
	p.currentNode().AppendChild(newComment(p.doc, data))
}

// --- active formatting elements ------------------------------------------

func (p *Parser) pushFormatting(n *Node) {
	p.activeFmt.Add(n)
}

// adoptionAgency implements the common case of the algorithm: an end tag
// for a misnested formatting element closes everything up to (and
// including) its nearest matching entry in the active formatting list, and
// reopens any formatting elements that were still open above it by cloning
// them onto the new insertion point. Outer/inner-loop bookkeeping for
// doubly-nested cases is not implemented — see SPEC_FULL.md.
func (p *Parser) adoptionAgency(tag string) {
	var target *Node
	idx := -1
	for i := p.activeFmt.Size() - 1; i >= 0; i-- {
		v, _ := p.activeFmt.Get(i)
		if n, ok := v.(*Node); ok && n.TagName == tag {
			target = n
			idx = i
			break
		}
	}
	if target == nil {
		p.inBodyAnyOtherEndTag(tag)
		return
	}
	if !p.hasInStack(tag) {
		p.activeFmt.Remove(idx)
		return
	}
	// Pop the open-element stack down to (and including) target, then
	// reopen every formatting element that was above it by cloning it at
	// the current insertion point, preserving nesting order.
	var reopen []*Node
	for {
		n := p.pop()
		if n == nil {
			break
		}
		if n == target {
			break
		}
		if reformattingTags[n.TagName] {
			reopen = append(reopen, n)
		}
	}
	p.activeFmt.Remove(idx)
	for i := len(reopen) - 1; i >= 0; i-- {
		clone := newElement(p.doc, reopen[i].TagName, reopen[i].Attributes())
		p.currentNode().AppendChild(clone)
		p.push(clone)
		p.pushFormatting(clone)
	}
}

func (p *Parser) reconstructActiveFormatting() {
	if p.activeFmt.Size() == 0 {
		return
	}
	var toReopen []*Node
	for i := p.activeFmt.Size() - 1; i >= 0; i-- {
		v, _ := p.activeFmt.Get(i)
		n, ok := v.(*Node)
		if !ok { // marker
			break
		}
		if p.hasInStack(n.TagName) {
			break
		}
		toReopen = append(toReopen, n)
	}
	for i := len(toReopen) - 1; i >= 0; i-- {
		old := toReopen[i]
		clone := newElement(p.doc, old.TagName, old.Attributes())
		p.currentNode().AppendChild(clone)
		p.push(clone)
		// replace the stale entry in the formatting list with the clone
		for j := 0; j < p.activeFmt.Size(); j++ {
			v, _ := p.activeFmt.Get(j)
			if v == old {
				p.activeFmt.Set(j, clone)
				break
			}
		}
	}
}

// --- insertion modes -------------------------------------------------------

func (p *Parser) inInitial(tok Token) {
	switch tok.Type {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return
		}
	case TokenComment:
		p.insertComment(tok.CommentText)
		return
	case TokenDoctype:
		dt := newDoctype(p.doc, tok.Name, tok.PublicID, tok.SystemID)
		p.doc.Root.AppendChild(dt)
		p.mode = modeBeforeHTML
		return
	}
	p.mode = modeBeforeHTML
	p.dispatch(tok)
}

func (p *Parser) inBeforeHTML(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		return
	case tok.Type == TokenComment:
		p.insertComment(tok.CommentText)
		return
	case tok.Type == TokenStartTag && tok.TagName == "html":
		n := p.insertSelfContained(tok)
		p.push(n)
		p.mode = modeBeforeHead
		return
	}
	html := newElement(p.doc, "html", nil)
	p.doc.Root.AppendChild(html)
	p.push(html)
	p.mode = modeBeforeHead
	p.dispatch(tok)
}

func (p *Parser) inBeforeHead(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		return
	case tok.Type == TokenComment:
		p.insertComment(tok.CommentText)
		return
	case tok.Type == TokenStartTag && tok.TagName == "head":
		n := p.insertElement(tok)
		p.headElem = n
		p.mode = modeInHead
		return
	}
	n := newElement(p.doc, "head", nil)
	p.currentNode().AppendChild(n)
	p.push(n)
	p.headElem = n
	p.mode = modeInHead
	p.dispatch(tok)
}

var headRawtextStartTags = map[string]bool{"title": true, "noframes": true, "style": true, "script": true}

func (p *Parser) inHead(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		p.insertText(string(tok.Char))
		return
	case tok.Type == TokenComment:
		p.insertComment(tok.CommentText)
		return
	case tok.Type == TokenStartTag && (tok.TagName == "meta" || tok.TagName == "link" || tok.TagName == "base"):
		p.insertSelfContained(tok)
		return
	case tok.Type == TokenStartTag && headRawtextStartTags[tok.TagName]:
		p.insertElement(tok)
		p.origMode = modeInHead
		p.mode = modeText
		return
	case tok.Type == TokenEndTag && tok.TagName == "head":
		p.pop()
		p.mode = modeAfterHead
		return
	}
	p.pop() // close head implicitly
	p.mode = modeAfterHead
	p.dispatch(tok)
}

func (p *Parser) inAfterHead(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		p.insertText(string(tok.Char))
		return
	case tok.Type == TokenComment:
		p.insertComment(tok.CommentText)
		return
	case tok.Type == TokenStartTag && tok.TagName == "body":
		p.insertElement(tok)
		p.framesetOK = false
		p.mode = modeInBody
		return
	}
	n := newElement(p.doc, "body", nil)
	p.currentNode().AppendChild(n)
	p.push(n)
	p.mode = modeInBody
	p.dispatch(tok)
}

func (p *Parser) inBody(tok Token) {
	switch tok.Type {
	case TokenCharacter:
		if tok.Char == 0 {
			return
		}
		p.reconstructActiveFormatting()
		p.insertText(string(tok.Char))
		return
	case TokenComment:
		p.insertComment(tok.CommentText)
		return
	case TokenEOF:
		return
	case TokenStartTag:
		switch {
		case tok.TagName == "br" || tok.TagName == "img" || tok.TagName == "input" ||
			tok.TagName == "hr" || tok.TagName == "wbr" || tok.TagName == "embed":
			p.reconstructActiveFormatting()
			p.insertSelfContained(tok)
			p.framesetOK = false
		case isVoidElement(tok.TagName):
			p.insertSelfContained(tok)
		case reformattingTags[tok.TagName]:
			p.reconstructActiveFormatting()
			n := p.insertElement(tok)
			p.pushFormatting(n)
		default:
			p.reconstructActiveFormatting()
			p.insertElement(tok)
		}
		return
	case TokenEndTag:
		switch {
		case tok.TagName == "body" || tok.TagName == "html":
			if p.hasInStack("body") {
				p.mode = modeAfterBody
			}
			if tok.TagName == "html" {
				p.reprocess = &tok
			}
			return
		case reformattingTags[tok.TagName]:
			p.adoptionAgency(tok.TagName)
			return
		default:
			p.inBodyAnyOtherEndTag(tok.TagName)
			return
		}
	}
}

// inBodyAnyOtherEndTag implements the generic "any other end tag" branch:
// pop the open-element stack until the matching element is found and
// removed, as long as it's actually on the stack.
func (p *Parser) inBodyAnyOtherEndTag(tag string) {
	if !p.hasInStack(tag) {
		p.Errors.Add(treeError("stray end tag: " + tag))
		return
	}
	p.popUntil(tag)
}

func (p *Parser) inText(tok Token) {
	switch tok.Type {
	case TokenCharacter:
		p.insertText(string(tok.Char))
	case TokenEOF:
		p.pop()
		p.mode = p.origMode
		p.reprocess = &tok
	case TokenEndTag:
		p.pop()
		p.mode = p.origMode
	}
}

func (p *Parser) inAfterBody(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		p.inBody(tok)
		return
	case tok.Type == TokenComment:
		p.doc.Root.AppendChild(newComment(p.doc, tok.CommentText))
		return
	case tok.Type == TokenEndTag && tok.TagName == "html":
		p.mode = modeAfterAfterBody
		return
	}
	p.mode = modeInBody
	p.dispatch(tok)
}

func (p *Parser) inAfterAfterBody(tok Token) {
	switch {
	case tok.Type == TokenCharacter && isWhitespace(tok.Char):
		p.inBody(tok)
		return
	case tok.Type == TokenComment:
		p.doc.Root.AppendChild(newComment(p.doc, tok.CommentText))
		return
	case tok.Type == TokenEOF:
		return
	}
	p.mode = modeInBody
	p.dispatch(tok)
}

type treeError string

func (e treeError) Error() string { return "html tree constructor: " + string(e) }
