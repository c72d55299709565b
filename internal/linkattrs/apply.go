package linkattrs

// Apply merges attrs into the token. Existing attributes are overwritten in place and
// unknown ones are appended, so the order of attributes already on the token never
// changes. className is written as class.
func Apply(tok *Token, attrs Attrs) {
	for _, attr := range attrs {
		name := canonicalName(attr.Name)
		if i := tok.AttrIndex(name); i >= 0 {
			tok.SetAttrAt(i, attr.Value)
			continue
		}
		tok.AttrPush(name, attr.Value)
	}
}
