package html

import (
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// NodeType discriminates the handful of DOM node kinds the core builds.
// There is no CDATASection/ProcessingInstruction/Foreign-content variant:
// none of those are reachable once scripting and foreign content are out of
// scope.
type NodeType int

const (
	DocumentNode NodeType = iota
	DoctypeNode
	ElementNode
	TextNode
	CommentNode
)

// attrPair is one name/value entry in a Node's insertion-ordered attribute
// list.
type attrPair struct {
	Name  string
	Value string
}

// Node is one entry in the DOM tree (spec component D). Parent plus
// doubly-linked siblings give O(1) navigation; child order is the
// FirstChild/NextSibling chain.
type Node struct {
	Type NodeType

	// Element
	TagName    string
	attrs      []attrPair
	classList  *linkedhashset.Set

	// Doctype
	Name     string
	PublicID string
	SystemID string

	// Text / Comment
	Data string

	Parent          *Node
	FirstChild      *Node
	LastChild       *Node
	PrevSibling     *Node
	NextSibling     *Node

	doc *Document // back-reference, set on insertion, for title/title-change hooks
}

// Document is the tree root plus the handful of cross-cutting bits of state
// (title, stylesheets, scripts) a renderer needs but that don't belong on
// any one Node.
type Document struct {
	Root *Node

	Title       string
	OnTitleChange func(string) // set by the pipeline; called whenever Title changes

	Stylesheets []*Node // <link rel=stylesheet> and <style> elements, in document order
	Scripts     []*Node // <script> elements, in document order (never executed)

	titleElem *Node
}

// NewDocument creates an empty document with its Root node in place.
func NewDocument() *Document {
	doc := &Document{}
	doc.Root = &Node{Type: DocumentNode, doc: doc}
	return doc
}

func newElement(doc *Document, tag string, attrs []Attribute) *Node {
	n := &Node{Type: ElementNode, TagName: tag, doc: doc}
	for _, a := range attrs {
		n.SetAttribute(a.Name, a.Value)
	}
	return n
}

func newText(doc *Document, data string) *Node {
	return &Node{Type: TextNode, Data: data, doc: doc}
}

func newComment(doc *Document, data string) *Node {
	return &Node{Type: CommentNode, Data: data, doc: doc}
}

func newDoctype(doc *Document, name, public, system string) *Node {
	return &Node{Type: DoctypeNode, Name: name, PublicID: public, SystemID: system, doc: doc}
}

// GetAttribute returns the named attribute's value, if present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute sets an attribute (for "class", the class list is replaced
// by the value's whitespace-separated names), keeping source insertion
// order for first-seen names.
func (n *Node) SetAttribute(name, value string) {
	if name == "class" {
		n.classListSet().Clear()
		for _, c := range strings.Fields(value) {
			n.classListSet().Add(c)
		}
	}
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, attrPair{Name: name, Value: value})
}

// Attributes returns the attribute list in source order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = Attribute{Name: a.Name, Value: a.Value}
	}
	return out
}

// ClassList returns the node's class set, an ordered set backed by
// emirpasic/gods so membership tests and iteration are both well-defined —
// the teacher's plain string splitting had no such guarantee.
func (n *Node) ClassList() *linkedhashset.Set {
	return n.classListSet()
}

func (n *Node) classListSet() *linkedhashset.Set {
	if n.classList == nil {
		n.classList = linkedhashset.New()
	}
	return n.classList
}

// HasClass reports whether c is present in the node's class list.
func (n *Node) HasClass(c string) bool {
	return n.classList != nil && n.classList.Contains(c)
}

// AppendChild appends child as this node's last child, unlinking it from
// any previous parent first.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts newChild before ref (or at the end if ref is nil),
// re-parenting newChild if it already belongs to another node.
func (n *Node) InsertBefore(newChild, ref *Node) {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	newChild.Parent = n
	newChild.doc = n.doc

	if ref == nil {
		newChild.PrevSibling = n.LastChild
		newChild.NextSibling = nil
		if n.LastChild != nil {
			n.LastChild.NextSibling = newChild
		} else {
			n.FirstChild = newChild
		}
		n.LastChild = newChild
	} else {
		newChild.PrevSibling = ref.PrevSibling
		newChild.NextSibling = ref
		if ref.PrevSibling != nil {
			ref.PrevSibling.NextSibling = newChild
		} else {
			n.FirstChild = newChild
		}
		ref.PrevSibling = newChild
	}

	n.onChildInserted(newChild)
}

// RemoveChild unlinks child from n. No-op if child is not actually a child
// of n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		return
	}
	if child.PrevSibling != nil {
		child.PrevSibling.NextSibling = child.NextSibling
	} else {
		n.FirstChild = child.NextSibling
	}
	if child.NextSibling != nil {
		child.NextSibling.PrevSibling = child.PrevSibling
	} else {
		n.LastChild = child.PrevSibling
	}
	child.Parent = nil
	child.PrevSibling = nil
	child.NextSibling = nil
}

// Children materializes the child list. Most tree-construction code walks
// FirstChild/NextSibling directly; this exists for callers (layout tree
// builder, matcher) that want random access.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// onChildInserted runs the small set of per-tag hooks the tree constructor
// needs: tracking <title>'s text, and registering <link rel=stylesheet>,
// <style> and <script> elements on the owning Document as they're attached.
func (n *Node) onChildInserted(child *Node) {
	doc := n.doc
	if doc == nil {
		return
	}
	if child.Type == ElementNode {
		switch child.TagName {
		case "title":
			if doc.titleElem == nil {
				doc.titleElem = child
			}
		case "style":
			doc.Stylesheets = append(doc.Stylesheets, child)
		case "script":
			doc.Scripts = append(doc.Scripts, child)
		case "link":
			if rel, _ := child.GetAttribute("rel"); strings.EqualFold(rel, "stylesheet") {
				doc.Stylesheets = append(doc.Stylesheets, child)
			}
		}
	}
	if child.Type == TextNode && n.Type == ElementNode && n.TagName == "title" {
		doc.refreshTitle()
	}
}

// refreshTitle recomputes Document.Title from the first <title> element's
// text content and fires OnTitleChange if it actually changed.
func (doc *Document) refreshTitle() {
	if doc.titleElem == nil {
		return
	}
	var sb strings.Builder
	for c := doc.titleElem.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
	}
	title := sb.String()
	if title == doc.Title {
		return
	}
	doc.Title = title
	if doc.OnTitleChange != nil {
		doc.OnTitleChange(title)
	}
}

// TextContent concatenates the text of this node and all its descendants,
// depth-first.
func (n *Node) TextContent() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(m *Node) {
		if m.Type == TextNode {
			sb.WriteString(m.Data)
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Serialize returns this node's innerHTML.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		serializeNode(&sb, c)
	}
	return sb.String()
}

// SerializeOuter returns this node's outerHTML.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		sb.WriteString(escapeHTML(n.Data))
		return
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
		return
	case DoctypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(n.Name)
		sb.WriteString(">")
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteByte('"')
	}
	if isVoidElement(n.TagName) {
		sb.WriteString(">")
		return
	}
	sb.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		serializeNode(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
