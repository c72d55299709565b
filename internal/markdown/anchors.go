package markdown

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
)

// Anchor is an <a> element of rendered HTML.
type Anchor struct {
	Href  string          `json:"href"`
	Text  string          `json:"text"`
	Attrs linkattrs.Attrs `json:"attrs"`
}

// ParseAnchors lists the anchors of an HTML fragment in document order. Attributes are
// reported as the HTML parser sees them, so names are lower-cased.
func ParseAnchors(r io.Reader) ([]Anchor, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var anchors []Anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			a := Anchor{Text: extractText(n)}
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					a.Href = attr.Val
				}
				a.Attrs = append(a.Attrs, linkattrs.Attr{Name: attr.Key, Value: attr.Val})
			}
			anchors = append(anchors, a)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return anchors, nil
}

// Anchors renders content and lists the anchors of the result.
func (r *Renderer) Anchors(content []byte) ([]Anchor, error) {
	res, err := r.RenderDocument(content)
	if err != nil {
		return nil, err
	}
	return ParseAnchors(bytes.NewReader(res.HTML))
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return strings.TrimSpace(text.String())
}
