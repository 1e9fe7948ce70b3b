package html

import "testing"

// Boundary behavior (spec §8): empty HTML produces a well-formed skeleton.
func TestParseEmptyHTMLProducesSkeleton(t *testing.T) {
	doc := Parse("")
	html := doc.Root.FirstChild
	if html == nil || html.Type != ElementNode || html.TagName != "html" {
		t.Fatalf("expected <html> as root's first child, got %+v", html)
	}
	head := html.FirstChild
	if head == nil || head.TagName != "head" {
		t.Fatalf("expected <head>, got %+v", head)
	}
	body := head.NextSibling
	if body == nil || body.TagName != "body" {
		t.Fatalf("expected <body>, got %+v", body)
	}
}

func TestAttributesParsedInSourceOrder(t *testing.T) {
	doc := Parse(`<div id="x" class="a b" data-foo="bar"></div>`)
	div := findElement(doc.Root, "div")
	if div == nil {
		t.Fatal("expected a <div>")
	}
	attrs := div.Attributes()
	if len(attrs) != 3 || attrs[0].Name != "id" || attrs[1].Name != "class" || attrs[2].Name != "data-foo" {
		t.Fatalf("attributes out of order: %+v", attrs)
	}
	if v, _ := div.GetAttribute("id"); v != "x" {
		t.Fatalf("id = %q, want x", v)
	}
	classes := div.ClassList()
	if !classes.Contains("a") || !classes.Contains("b") {
		t.Fatalf("class list missing entries: %v", classes.Values())
	}
}

func TestTitleTrackedLive(t *testing.T) {
	var seen []string
	doc := NewDocument()
	doc.OnTitleChange = func(title string) { seen = append(seen, title) }

	p := NewParser(`<title>Hello</title>`)
	p.Document().OnTitleChange = doc.OnTitleChange
	got := p.Parse()
	if got.Title != "Hello" {
		t.Fatalf("Document.Title = %q, want Hello", got.Title)
	}
	if len(seen) == 0 || seen[len(seen)-1] != "Hello" {
		t.Fatalf("OnTitleChange not fired with final title, got %v", seen)
	}
}

func TestNamedCharacterReferenceDecoded(t *testing.T) {
	doc := Parse(`<p>Fish &amp; Chips</p>`)
	p := findElement(doc.Root, "p")
	if p == nil {
		t.Fatal("expected a <p>")
	}
	if got := p.TextContent(); got != "Fish & Chips" {
		t.Fatalf("TextContent() = %q, want %q", got, "Fish & Chips")
	}
}

func findElement(n *Node, tag string) *Node {
	if n.Type == ElementNode && n.TagName == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
