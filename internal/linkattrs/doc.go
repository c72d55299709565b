// Package linkattrs adds HTML attributes to links rendered by goldmark.
//
// Attributes come from three places:
//
//   - rules that apply to every link,
//   - rules whose pattern matches the link destination,
//   - the destination itself, where everything after a "|" is parsed as
//     key=value pairs or bare flags: [docs](https://example.com|hidden|rel=nofollow).
//
// Rules are installed on a Table, the handler mapping for link-opening nodes. Every
// call to Use wraps the handler that was installed before it, so independent
// registrations stack instead of replacing each other:
//
//	table := linkattrs.NewTable()
//	if err := linkattrs.Register(table, linkattrs.Rule{
//		Pattern: linkattrs.Expr(`^https?://`),
//		Attrs:   linkattrs.Attrs{{Name: "target", Value: "_blank"}},
//	}); err != nil {
//		return err
//	}
//	md := goldmark.New(goldmark.WithExtensions(table))
package linkattrs
