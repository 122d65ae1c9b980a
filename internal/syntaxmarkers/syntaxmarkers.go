// Package syntaxmarkers seeds a markerindex.Index with one marker per
// top-level declaration in a Go source file, parsed with tree-sitter, so
// the index can track declaration boundaries across edits the way an
// editor's outline view or a "go to symbol" feature would.
package syntaxmarkers

import (
	"context"
	"fmt"

	golang "github.com/alexaandru/go-sitter-forest/go"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

// topLevelKinds are the tree-sitter node types this package seeds a marker
// for, in the grammar shipped by github.com/alexaandru/go-sitter-forest/go.
var topLevelKinds = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"type_declaration":     true,
	"const_declaration":    true,
	"var_declaration":      true,
}

// Declaration is one seeded top-level declaration: its marker id, the node
// kind that produced it, and its range in the source as parsed.
type Declaration struct {
	ID    markerindex.MarkerID
	Kind  string
	Range markerindex.Range
}

// Parse parses source as Go and returns one Declaration per top-level
// function, method, type, const, or var declaration, in source order.
func Parse(ctx context.Context, source []byte) ([]Declaration, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseString(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}

	root := tree.RootNode()

	decls := make([]Declaration, 0, root.NamedChildCount())

	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)
		if !topLevelKinds[child.Type()] {
			continue
		}

		start := child.StartPoint()
		end := child.EndPoint()

		decls = append(decls, Declaration{
			Kind:  child.Type(),
			Range: markerindex.NewRange(markerindex.NewPoint(start.Row, start.Column), markerindex.NewPoint(end.Row, end.Column)),
		})
	}

	return decls, nil
}

// Seed inserts one marker per Declaration into ix, numbered from firstID in
// source order, and fills in each Declaration's assigned ID.
func Seed(ix *markerindex.Index, decls []Declaration, firstID markerindex.MarkerID) error {
	id := firstID

	for i := range decls {
		err := ix.Insert(id, decls[i].Range.Start, decls[i].Range.End)
		if err != nil {
			return fmt.Errorf("insert marker for %s at %s: %w", decls[i].Kind, decls[i].Range, err)
		}

		decls[i].ID = id
		id++
	}

	return nil
}
