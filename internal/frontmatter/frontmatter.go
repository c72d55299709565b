package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
)

// LinkAttributesKey is the frontmatter field holding per-document link rules.
const LinkAttributesKey = "link_attributes"

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at end of file has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len("---")
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// LinkRules decodes the link_attributes field. ok is false when the field is absent.
// Attribute order follows the document.
func LinkRules(frontmatter []byte) (rules config.RuleList, ok bool, err error) {
	if len(frontmatter) == 0 {
		return nil, false, nil
	}
	var doc struct {
		LinkAttributes *config.RuleList `yaml:"link_attributes"`
	}
	if err := yaml.Unmarshal(frontmatter, &doc); err != nil {
		return nil, false, err
	}
	if doc.LinkAttributes == nil {
		return nil, false, nil
	}
	return *doc.LinkAttributes, true, nil
}

// Title returns the string title field, if any.
func Title(fields map[string]any) string {
	if s, ok := fields["title"].(string); ok {
		return s
	}
	return ""
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
