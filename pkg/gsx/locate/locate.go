// Package locate maps elements of rendered HTML back to the .gsx source that
// produced them, using the attributes injected by gsx.WithSourceLocations.
package locate

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/kilianc/gsxloc/pkg/gsx/srcloc"
)

type Element struct {
	// Location is the data-source-location value, "path:line:col".
	Location string
	Metadata srcloc.Metadata
	// Tag is the rendered tag name, which for components differs from
	// Metadata.ElementType.
	Tag  string
	Text string
}

var instrumented = "[" + srcloc.AttrLocation + "]"

// FromHTML parses an HTML document and locates the elements matching
// selector. An empty selector selects every instrumented element. A matching
// element without location attributes resolves to its closest instrumented
// ancestor. Results are in document order without duplicates.
func FromHTML(r io.Reader, selector string) ([]Element, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("locate: parse html: %w", err)
	}
	return FromDocument(doc, selector)
}

func FromDocument(doc *goquery.Document, selector string) ([]Element, error) {
	if strings.TrimSpace(selector) == "" {
		selector = instrumented
	}

	// goquery treats an invalid selector as one that matches nothing.
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("locate: selector %q: %w", selector, err)
	}

	seen := map[*html.Node]bool{}
	doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		if c := s.Closest(instrumented); c.Length() > 0 {
			seen[c.Get(0)] = true
		}
	})

	// Ancestors found through Closest come after their descendants; walk the
	// document again to report in document order.
	var out []Element
	doc.Find(instrumented).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !seen[s.Get(0)] {
			return true
		}
		var el Element
		el, err = element(s)
		if err != nil {
			return false
		}
		out = append(out, el)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func element(s *goquery.Selection) (Element, error) {
	loc, _ := s.Attr(srcloc.AttrLocation)
	el := Element{
		Location: loc,
		Tag:      goquery.NodeName(s),
		Text:     strings.Join(strings.Fields(s.Text()), " "),
	}

	if stack, ok := s.Attr(srcloc.AttrStack); ok {
		md, err := srcloc.Decode(stack)
		if err != nil {
			return Element{}, fmt.Errorf("locate: %s: %w", loc, err)
		}
		el.Metadata = md
		return el, nil
	}

	// Only the location survived, e.g. after an HTML sanitizer dropped the stack.
	path, line, col, err := srcloc.ParseLocation(loc)
	if err != nil {
		return Element{}, fmt.Errorf("locate: %w", err)
	}
	el.Metadata = srcloc.Metadata{FileName: path, LineNumber: line, ColumnNumber: col}
	if t, ok := s.Attr(srcloc.AttrElementType); ok {
		el.Metadata.ElementType = t
		el.Metadata.TagName = strings.ToLower(t)
	}
	return el, nil
}
