package css

import (
	"github.com/wrenweb/wren/internal/obslog"
	"github.com/wrenweb/wren/pkg/html"
	netx "github.com/wrenweb/wren/std/net"
)

// userAgentSheet is the minimal UA default stylesheet (spec §4.3's "UA
// sheet" cascade origin). It only covers the handful of display-affecting
// defaults the core's layout tree builder actually relies on: block-level
// elements default to `display: inline` (the CSS initial value) unless
// this sheet (or the author) says otherwise.
var userAgentSheet = ParseStylesheet(`
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, header, footer,
section, article, nav, figure, figcaption, blockquote, pre, form, table {
  display: block;
}
head, style, script, meta, title, link, base { display: none; }
`)

// CollectStylesheets walks doc's style-owning elements (spec §3.1's
// Document.Stylesheets) in document order and returns one SheetRef per
// attached sheet, UA sheet first so author/user sheets win ties at equal
// specificity via cascade rule 1, not source order.
//
// `<link rel=stylesheet>` elements are resolved against baseURL and
// fetched through std/net (spec §6.1's LoadHTML contract, minimal
// file/HTTP loader only); a failed fetch contributes no rules and is
// logged, per spec §7's "Resource load error" kind.
func CollectStylesheets(doc *html.Document, baseURL string) []SheetRef {
	refs := []SheetRef{{Sheet: userAgentSheet, Origin: OriginUserAgent, Location: LocationExternal}}
	for _, el := range doc.Stylesheets {
		switch el.TagName {
		case "style":
			refs = append(refs, SheetRef{
				Sheet:    ParseStylesheet(el.TextContent()),
				Origin:   OriginAuthor,
				Location: LocationEmbedded,
			})
		case "link":
			href, ok := el.GetAttribute("href")
			if !ok {
				continue
			}
			sheet, ok := fetchLinkedSheet(href, baseURL)
			if !ok {
				continue
			}
			refs = append(refs, SheetRef{Sheet: sheet, Origin: OriginAuthor, Location: LocationExternal})
		}
	}
	return refs
}

func fetchLinkedSheet(href, baseURL string) (*Stylesheet, bool) {
	resolved := href
	if baseURL != "" {
		resolved = netx.ResolveURL(baseURL, href)
	}
	body, _, err := netx.Fetch(resolved)
	if err != nil {
		obslog.L().Sugar().Warnw("stylesheet load failed", "url", resolved, "error", err)
		return nil, false
	}
	return ParseStylesheet(string(body)), true
}
