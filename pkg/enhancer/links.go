package enhancer

import (
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// linkDestinations returns every link, image and autolink target in md.
func linkDestinations(md string) map[string]struct{} {
	source := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	dests := make(map[string]struct{})
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			dests[string(node.Destination)] = struct{}{}
		case *ast.Image:
			dests[string(node.Destination)] = struct{}{}
		case *ast.AutoLink:
			dests[string(node.URL(source))] = struct{}{}
		}
		return ast.WalkContinue, nil
	})
	return dests
}

// MissingLinks lists destinations present in before but absent from after,
// sorted.
func MissingLinks(before, after string) []string {
	kept := linkDestinations(after)
	var missing []string
	for dest := range linkDestinations(before) {
		if _, ok := kept[dest]; !ok {
			missing = append(missing, dest)
		}
	}
	slices.Sort(missing)
	return missing
}
