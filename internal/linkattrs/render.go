package linkattrs

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// renderLink mirrors goldmark's link renderer but writes every attribute, not only
// the ones goldmark's link filter allows.
func (t *Table) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	if t.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		if v, ok := n.AttributeString(titleAttr); ok {
			_, _ = w.Write(util.EscapeHTML([]byte(attrValue(v))))
		} else {
			t.Writer.Write(w, n.Title)
		}
		_ = w.WriteByte('"')
	}
	renderAttributes(w, n)
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (t *Table) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}
	url := []byte((&Token{node: n, source: source}).Href())
	_, _ = w.WriteString(`<a href="`)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	_ = w.WriteByte('"')
	renderAttributes(w, n)
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(n.Label(source)))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

// renderAttributes writes the node attributes except href and a title already written
// in its source position. Names that are not valid attribute names are skipped.
func renderAttributes(w util.BufWriter, node ast.Node) {
	written := hasWrittenTitle(node)
	for _, attr := range node.Attributes() {
		name := string(attr.Name)
		if name == hrefAttr || (written && name == titleAttr) || !ValidName(name) {
			continue
		}
		_ = w.WriteByte(' ')
		_, _ = w.Write(attr.Name)
		_, _ = w.WriteString(`="`)
		_, _ = w.Write(util.EscapeHTML([]byte(attrValue(attr.Value))))
		_ = w.WriteByte('"')
	}
}
