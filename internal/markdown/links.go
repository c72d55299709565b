package markdown

import (
	"cmp"
	"slices"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdlinkattrs/internal/frontmatter"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a destination as written in the source, split into the real href and the
// inline attributes encoded after it. Images never carry inline attributes.
type Link struct {
	Kind        LinkKind        `json:"kind"`
	Destination string          `json:"destination"`
	Href        string          `json:"href"`
	Inline      linkattrs.Attrs `json:"inline,omitempty"`
}

func newLink(kind LinkKind, dest []byte) Link {
	l := Link{Kind: kind, Destination: string(dest), Href: string(dest)}
	if kind == LinkKindImage {
		return l
	}
	if href, attrs, ok := linkattrs.SplitInline(l.Destination); ok {
		l.Href, l.Inline = href, attrs
	}
	return l
}

// ExtractLinks lists the link destinations of a document without rendering it. Links
// come in document order, followed by reference definitions sorted by label.
// Frontmatter is skipped when opts.Frontmatter is set.
func ExtractLinks(content []byte, opts Options) ([]Link, error) {
	body := content
	if opts.Frontmatter {
		if _, b, _, err := frontmatter.Split(content); err == nil {
			body = b
		}
	}

	ctx := parser.NewContext()
	doc := goldmark.New(goldmark.WithExtensions(opts.extensions()...)).
		Parser().
		Parse(text.NewReader(body), parser.WithContext(ctx))

	var links []Link
	err := gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if l, ok := sourceLink(n, body); ok {
				links = append(links, l)
			}
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	refs := ctx.References()
	slices.SortFunc(refs, func(a, b parser.Reference) int {
		return cmp.Compare(string(a.Label()), string(b.Label()))
	})
	for _, ref := range refs {
		links = append(links, newLink(LinkKindReferenceDefinition, ref.Destination()))
	}
	if links == nil {
		links = []Link{}
	}
	return links, nil
}

// sourceLink maps a link-like node onto a Link. Reference-style usages are resolved by
// the parser and reported as inline links.
func sourceLink(n gmast.Node, source []byte) (Link, bool) {
	switch node := n.(type) {
	case *gmast.Link:
		return newLink(LinkKindInline, node.Destination), true
	case *gmast.AutoLink:
		return newLink(LinkKindAuto, node.URL(source)), true
	case *gmast.Image:
		return newLink(LinkKindImage, node.Destination), true
	}
	return Link{}, false
}
