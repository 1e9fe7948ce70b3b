package layout

import (
	cssx "github.com/wrenweb/wren/pkg/css"
	"github.com/wrenweb/wren/pkg/html"

	"github.com/wrenweb/wren/internal/obslog"
)

// builder walks a styled DOM and produces a LayoutBox tree, wrapping runs
// of inline children in anonymous block containers per spec §4.4.1.
type builder struct {
	styles map[*html.Node]*cssx.ComputedStyle
}

// BuildTree converts root (the document's root element, e.g. <html>) into
// a LayoutBox tree, given its per-node computed styles. Returns nil if
// root has no computed style or is display:none; any other non-block
// display on root is laid out as a block container.
func BuildTree(root *html.Node, styles map[*html.Node]*cssx.ComputedStyle) *LayoutBox {
	b := &builder{styles: styles}
	style := styles[root]
	if style == nil || style.Keyword("display") == "none" {
		return nil
	}
	if style.Keyword("display") != "block" {
		// A non-block document root is vanishingly rare in the core's
		// supported subset; treat it as block so the pipeline always has
		// a usable containing block for the viewport.
		return b.buildBlockContainerAs(root, style)
	}
	return b.buildBlockContainer(root)
}

func (b *builder) buildBlockContainer(n *html.Node) *LayoutBox {
	return b.buildBlockContainerAs(n, b.styles[n])
}

func (b *builder) buildBlockContainerAs(n *html.Node, style *cssx.ComputedStyle) *LayoutBox {
	box := &LayoutBox{Node: n, Style: style, Kind: BoxBlockContainer, FC: FCBlock}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.insertUnderBlock(box, c)
	}
	return box
}

// insertUnderBlock processes one DOM child in the context of the nearest
// enclosing block container, blockAncestor, applying the §4.4.1 rules.
// domChild may itself be an inline element whose own subtree nests
// further; block-level descendants found while walking that subtree are
// hoisted back to blockAncestor (the "walk up the parent stack" rule).
func (b *builder) insertUnderBlock(blockAncestor *LayoutBox, domChild *html.Node) {
	switch domChild.Type {
	case html.TextNode:
		if domChild.Data == "" {
			return
		}
		insertInline(blockAncestor, &LayoutBox{Kind: BoxText, Text: domChild.Data, FC: FCInline})
	case html.ElementNode:
		style := b.styles[domChild]
		if style == nil || style.Keyword("display") == "none" {
			return
		}
		switch style.Keyword("display") {
		case "block":
			insertBlock(blockAncestor, b.buildBlockContainer(domChild))
		case "inline":
			if domChild.TagName == "br" {
				insertInline(blockAncestor, &LayoutBox{Kind: BoxText, Text: "\n", FC: FCInline})
				return
			}
			insertInline(blockAncestor, b.buildInlineBox(domChild, blockAncestor))
		default:
			obslog.L().Sugar().Warnw("unsupported display value, skipping element",
				"display", style.Keyword("display"), "tag", domChild.TagName)
		}
	}
}

// buildInlineBox builds an inline-level box for n. Its inline-level
// children nest directly inside it; any block-level descendant is hoisted
// out to blockAncestor instead of nesting under the inline box (spec
// §4.4.1's "walk up the parent stack until a non-inline parent is found").
func (b *builder) buildInlineBox(n *html.Node, blockAncestor *LayoutBox) *LayoutBox {
	style := b.styles[n]
	box := &LayoutBox{Node: n, Style: style, Kind: BoxInline, FC: FCInline}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data == "" {
				continue
			}
			child := &LayoutBox{Kind: BoxText, Text: c.Data, FC: FCInline, Parent: box}
			box.Children = append(box.Children, child)
		case html.ElementNode:
			cs := b.styles[c]
			if cs == nil || cs.Keyword("display") == "none" {
				continue
			}
			switch cs.Keyword("display") {
			case "block":
				insertBlock(blockAncestor, b.buildBlockContainer(c))
			case "inline":
				if c.TagName == "br" {
					box.Children = append(box.Children, &LayoutBox{Kind: BoxText, Text: "\n", FC: FCInline, Parent: box})
					continue
				}
				child := b.buildInlineBox(c, blockAncestor)
				child.Parent = box
				box.Children = append(box.Children, child)
			default:
				obslog.L().Sugar().Warnw("unsupported display value, skipping element",
					"display", cs.Keyword("display"), "tag", c.TagName)
			}
		}
	}
	return box
}

// insertInline implements the "inline child under a block parent" rules
// of §4.4.1.
func insertInline(parent *LayoutBox, child *LayoutBox) {
	if len(parent.Children) == 0 || isInlineLevel(parent.Children[len(parent.Children)-1]) {
		child.Parent = parent
		parent.Children = append(parent.Children, child)
		return
	}
	last := parent.Children[len(parent.Children)-1]
	if last.Kind == BoxAnonymousBlock && allInline(last.Children) {
		child.Parent = last
		last.Children = append(last.Children, child)
		return
	}
	wrapper := &LayoutBox{Kind: BoxAnonymousBlock, FC: FCBlock, Parent: parent}
	child.Parent = wrapper
	wrapper.Children = append(wrapper.Children, child)
	parent.Children = append(parent.Children, wrapper)
}

// insertBlock implements the "block child under a block parent" rules of
// §4.4.1, draining a trailing inline run into a fresh anonymous block
// before appending child.
func insertBlock(parent *LayoutBox, child *LayoutBox) {
	if len(parent.Children) == 0 || !isInlineLevel(parent.Children[len(parent.Children)-1]) {
		child.Parent = parent
		parent.Children = append(parent.Children, child)
		return
	}
	i := len(parent.Children)
	for i > 0 && isInlineLevel(parent.Children[i-1]) {
		i--
	}
	inlineRun := append([]*LayoutBox(nil), parent.Children[i:]...)
	wrapper := &LayoutBox{Kind: BoxAnonymousBlock, FC: FCBlock, Parent: parent}
	for _, ic := range inlineRun {
		ic.Parent = wrapper
	}
	wrapper.Children = inlineRun
	parent.Children = append(parent.Children[:i], wrapper)
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

func allInline(children []*LayoutBox) bool {
	for _, c := range children {
		if !isInlineLevel(c) {
			return false
		}
	}
	return true
}
