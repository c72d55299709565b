package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
	"git.home.luguber.info/inful/mdlinkattrs/internal/markdown"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	File   string `arg:"" type:"existingfile" help:"Markdown file to inspect."`
	Format string `short:"f" enum:"text,json" default:"text" help:"Output format (text or json)."`
	Raw    bool   `help:"List source link destinations and their inline attributes instead of rendered anchors."`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(l.File)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("file", l.File).
			Build()
	}

	if l.Raw {
		links, err := markdown.ExtractLinks(content, markdown.OptionsFromConfig(cfg.Markdown))
		if err != nil {
			return err
		}
		if l.Format == "json" {
			return l.writeJSON(g, links)
		}
		for _, link := range links {
			if _, err := fmt.Fprintf(g.Stdout, "%s\t%s\t%s\n", link.Kind, link.Href, formatAttrs(link.Inline)); err != nil {
				return err
			}
		}
		return nil
	}

	renderer, err := g.newRenderer(cfg)
	if err != nil {
		return err
	}
	anchors, err := renderer.Anchors(content)
	if err != nil {
		return err
	}
	if l.Format == "json" {
		return l.writeJSON(g, anchors)
	}
	for _, a := range anchors {
		if _, err := fmt.Fprintf(g.Stdout, "%s\t%s\t%s\n", a.Href, formatAttrs(a.Attrs), a.Text); err != nil {
			return err
		}
	}
	return nil
}

func (l *LinksCmd) writeJSON(g *Global, v any) error {
	enc := json.NewEncoder(g.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode links").Build()
	}
	return nil
}

// formatAttrs renders the non-href attributes as name="value" pairs, or "-" when there
// are none.
func formatAttrs(attrs linkattrs.Attrs) string {
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Name == "href" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", attr.Name, attr.Value))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
