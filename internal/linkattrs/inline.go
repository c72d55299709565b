package linkattrs

import (
	"strings"
	"unicode/utf8"
)

// Separator delimits the real destination from inline attributes.
const Separator = "|"

// uriReserved lists characters whose escapes decodeURI leaves untouched.
const uriReserved = ";/?:@&=+$,#"

// ExtractInline moves attributes encoded in the token's destination onto the token and
// returns them. A destination without a separator is left untouched, which makes
// repeated extraction a no-op.
func ExtractInline(tok *Token) Attrs {
	href, custom, ok := SplitInline(tok.Href())
	if !ok {
		return nil
	}

	tok.SetHref(href)
	for _, attr := range custom {
		tok.AttrPush(attr.Name, attr.Value)
	}
	return custom
}

// SplitInline decodes dest and splits it into the real destination and the inline
// attributes after it. It reports false when dest carries no separator. An inline href
// is dropped: the destination written before the first separator always wins.
func SplitInline(dest string) (string, Attrs, bool) {
	decoded, ok := decodeURI(dest)
	if !ok {
		decoded = dest
	}
	segments := strings.Split(decoded, Separator)
	if len(segments) < 2 {
		return dest, nil, false
	}

	var custom Attrs
	for _, attr := range ParseAttrs(segments[1:]) {
		if attr.Name != hrefAttr {
			custom = append(custom, attr)
		}
	}
	return segments[0], custom, true
}

// ParseAttrs parses key=value and bare key specifications. A bare key records
// FlagValue. Keys that are not valid attribute names (see ValidName) are ignored and a
// repeated key keeps its last value.
func ParseAttrs(specs []string) Attrs {
	var out Attrs
	for _, spec := range specs {
		key, value, found := strings.Cut(spec, "=")
		if !found {
			value = FlagValue
		}
		if !ValidName(key) {
			continue
		}
		out = out.With(key, value)
	}
	return out
}

// decodeURI decodes percent escapes except those of reserved characters, which stay
// encoded. It reports false for malformed escapes or invalid UTF-8.
func decodeURI(s string) (string, bool) {
	if !strings.Contains(s, "%") {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		c, ok := unhex(s, i)
		if !ok {
			return "", false
		}
		if c < utf8.RuneSelf {
			if strings.IndexByte(uriReserved, c) >= 0 {
				b.WriteString(s[i : i+3])
			} else {
				b.WriteByte(c)
			}
			i += 3
			continue
		}

		n := utf8SeqLen(c)
		if n == 0 {
			return "", false
		}
		seq := []byte{c}
		j := i + 3
		for k := 1; k < n; k++ {
			cont, ok := unhex(s, j)
			if !ok {
				return "", false
			}
			seq = append(seq, cont)
			j += 3
		}
		if !utf8.Valid(seq) {
			return "", false
		}
		b.Write(seq)
		i = j
	}
	return b.String(), true
}

func unhex(s string, i int) (byte, bool) {
	if i+2 >= len(s) || s[i] != '%' {
		return 0, false
	}
	hi, ok1 := fromHex(s[i+1])
	lo, ok2 := fromHex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 0
}
