package linkattrs

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
)

// Token is the link-opening view of a goldmark *ast.Link or *ast.AutoLink. Its attribute
// list starts with href, then title when the link was written with one, then the node's
// attributes in order.
//
// A written title stays at index 1. Overwriting it stores the new value as a "title" node
// attribute which the default renderer writes in the title's place.
//
// The href of a Link is its Destination. An AutoLink takes its URL from the source, so
// a rewritten href is kept as an "href" node attribute and the default renderer
// prefers it.
type Token struct {
	node   ast.Node
	source []byte
}

// NewToken returns the token view of a link-opening node.
func NewToken(node ast.Node, source []byte) (*Token, bool) {
	switch node.(type) {
	case *ast.Link, *ast.AutoLink:
		return &Token{node: node, source: source}, true
	default:
		return nil, false
	}
}

// Node returns the underlying goldmark node.
func (t *Token) Node() ast.Node { return t.node }

// Href returns the current link destination.
func (t *Token) Href() string {
	switch n := t.node.(type) {
	case *ast.Link:
		return string(n.Destination)
	case *ast.AutoLink:
		if v, ok := n.AttributeString(hrefAttr); ok {
			return attrValue(v)
		}
		return string(n.URL(t.source))
	}
	return ""
}

// SetHref replaces the link destination.
func (t *Token) SetHref(href string) {
	switch n := t.node.(type) {
	case *ast.Link:
		n.Destination = []byte(href)
	case *ast.AutoLink:
		n.SetAttributeString(hrefAttr, []byte(href))
	}
}

// Attrs returns href, the written title if any, then the node attributes.
func (t *Token) Attrs() Attrs {
	out := Attrs{{Name: hrefAttr, Value: t.Href()}}
	written := hasWrittenTitle(t.node)
	if written {
		title := string(t.node.(*ast.Link).Title)
		if v, ok := t.node.AttributeString(titleAttr); ok {
			title = attrValue(v)
		}
		out = append(out, Attr{Name: titleAttr, Value: title})
	}
	for _, a := range t.node.Attributes() {
		if bytes.Equal(a.Name, []byte(hrefAttr)) || (written && bytes.Equal(a.Name, []byte(titleAttr))) {
			continue
		}
		out = append(out, Attr{Name: string(a.Name), Value: attrValue(a.Value)})
	}
	return out
}

// AttrIndex returns the position of name in Attrs, or -1.
func (t *Token) AttrIndex(name string) int {
	for i, a := range t.Attrs() {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// AttrPush appends an attribute. Goldmark keeps attribute names unique, so pushing a
// name the token already carries overwrites that entry in place; this includes href
// and a written title.
func (t *Token) AttrPush(name, value string) {
	if name == hrefAttr {
		t.SetHref(value)
		return
	}
	t.node.SetAttributeString(name, []byte(value))
}

// SetAttrAt overwrites the value of the attribute at position i of Attrs.
func (t *Token) SetAttrAt(i int, value string) {
	attrs := t.Attrs()
	if i < 0 || i >= len(attrs) {
		return
	}
	t.AttrPush(attrs[i].Name, value)
}

// hasWrittenTitle reports whether node is a link with a title in the source.
func hasWrittenTitle(node ast.Node) bool {
	link, ok := node.(*ast.Link)
	return ok && link.Title != nil
}

func attrValue(v any) string {
	switch typed := v.(type) {
	case []byte:
		return string(typed)
	case string:
		return typed
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
