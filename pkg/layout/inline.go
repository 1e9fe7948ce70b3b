package layout

import "strings"

// lineItem is one unbreakable unit the line-box builder places: a word, or
// a forced break from a `<br>`. box is the inline LayoutBox the word's
// text belongs to (the block container itself when the text is its direct
// child; nil for a forced break), carried through so painting can recurse
// into it (spec §4.5 step 3).
type lineItem struct {
	box        *LayoutBox
	text       string
	forceBreak bool
}

// flattenBox walks box's inline-level children in DOM order, merging
// consecutive text fragments before splitting on whitespace into words
// (spec §4.4.3's "text-fragment merging"), and recursing into nested
// inline boxes so each word keeps its nearest inline-box owner.
func flattenBox(box *LayoutBox) []lineItem {
	var items []lineItem
	var pending strings.Builder

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		for _, w := range strings.Fields(pending.String()) {
			items = append(items, lineItem{box: box, text: w})
		}
		pending.Reset()
	}

	for _, c := range box.Children {
		switch c.Kind {
		case BoxText:
			if c.Text == "\n" {
				flush()
				items = append(items, lineItem{forceBreak: true})
				continue
			}
			pending.WriteString(c.Text)
			pending.WriteByte(' ')
		case BoxInline:
			flush()
			items = append(items, flattenBox(c)...)
		}
	}
	flush()
	return items
}

func ownerFontSize(it lineItem, container *LayoutBox) float64 {
	if it.box != nil {
		return it.box.FontSizePx()
	}
	return container.FontSizePx()
}

// boxFragmentOwner reports the LayoutBox a fragment should reference for
// recursive painting (spec §4.5 step 3), or nil for plain text belonging
// directly to the container.
func boxFragmentOwner(owner, container *LayoutBox) *LayoutBox {
	if owner == container {
		return nil
	}
	return owner
}

// buildLineBoxes produces box's line boxes (spec §4.4.3), given its
// already-resolved content width. box.Children must be homogeneous inline
// content (the §4.4.1 invariant).
func buildLineBoxes(box *LayoutBox, containerWidth float64) []*LineBox {
	items := flattenBox(box)

	var lines []*LineBox
	var cur *LineBox
	var curWidth float64
	newLine := func() {
		cur = &LineBox{}
		lines = append(lines, cur)
		curWidth = 0
	}
	newLine()

	for _, it := range items {
		if it.forceBreak {
			newLine()
			continue
		}
		fontSize := ownerFontSize(it, box)
		w, h := MeasureText(it.text, fontSize)
		sep := 0.0
		if len(cur.Fragments) > 0 {
			sep = spaceWidth(fontSize)
		}
		if len(cur.Fragments) > 0 && curWidth+sep+w > containerWidth {
			newLine()
			sep = 0
		}
		frag := &LineFragment{
			Box:  boxFragmentOwner(it.box, box),
			Text: it.text,
		}
		frag.Offset.X = curWidth + sep
		frag.Size.W = w
		frag.Size.H = h
		cur.Fragments = append(cur.Fragments, frag)
		curWidth = frag.Offset.X + w
	}

	y := 0.0
	for _, ln := range lines {
		if len(ln.Fragments) == 0 {
			ln.Height = box.FontSizePx() // ascent stand-in (spec: height of "H")
		} else {
			maxH := 0.0
			for _, f := range ln.Fragments {
				if f.Size.H > maxH {
					maxH = f.Size.H
				}
			}
			ln.Height = maxH
		}
		ln.Y = y
		for _, f := range ln.Fragments {
			f.Offset.Y = y
		}
		alignLine(ln, box, containerWidth)
		y += ln.Height
	}
	return lines
}

// alignLine shifts every fragment on a finalized line by half the
// remaining space when the container's `text-align` computes to `center` (spec
// §4.4.3/§8 scenario 6).
func alignLine(ln *LineBox, box *LayoutBox, containerWidth float64) {
	if box.TextAlign() != "center" || len(ln.Fragments) == 0 {
		return
	}
	last := ln.Fragments[len(ln.Fragments)-1]
	lineWidth := last.Offset.X + last.Size.W
	shift := (containerWidth - lineWidth) / 2
	if shift <= 0 {
		return
	}
	for _, f := range ln.Fragments {
		f.Offset.X += shift
	}
}

// lineBoxesHeight sums a container's line heights, its content height when
// it holds inline content.
func lineBoxesHeight(lines []*LineBox) float64 {
	h := 0.0
	for _, ln := range lines {
		h += ln.Height
	}
	return h
}
