package inspect

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/LegacyCodeHQ/localize/specifier"
)

var extensionPalette = []string{
	"white", "lightblue", "lightyellow", "mistyrose", "lavender", "peachpuff",
}

// writeDOT renders a file -> package graph. Relative specifiers are left out;
// externals and built-ins are drawn but styled apart from packages that get
// localized.
func writeDOT(w io.Writer, files []fileEntries) error {
	g := graph.New(graph.StringHash, graph.Directed())

	colors := extensionColors(files)
	for _, f := range files {
		if err := g.AddVertex(f.file,
			graph.VertexAttribute("shape", "box"),
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", colors[filepath.Ext(f.file)]),
		); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add file %s: %w", f.file, err)
		}
	}

	for _, f := range files {
		for _, e := range f.entries {
			if e.Package == "" || e.Kind == specifier.KindRelative {
				continue
			}
			if err := g.AddVertex(e.Package, packageAttributes(e.Kind, e.External)...); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return fmt.Errorf("failed to add package %s: %w", e.Package, err)
			}
			if err := g.AddEdge(f.file, e.Package, graph.EdgeAttribute("label", e.Construct)); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("failed to add edge %s -> %s: %w", f.file, e.Package, err)
			}
		}
	}

	return draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR"))
}

func packageAttributes(kind specifier.Kind, external bool) []func(*graph.VertexProperties) {
	color := "palegreen"
	switch {
	case kind == specifier.KindBuiltin:
		color = "lightgrey"
	case external:
		color = "khaki"
	}
	return []func(*graph.VertexProperties){
		graph.VertexAttribute("shape", "ellipse"),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", color),
	}
}

// extensionColors assigns a fill color per source extension, in sorted order.
func extensionColors(files []fileEntries) map[string]string {
	unique := make(map[string]bool)
	for _, f := range files {
		unique[filepath.Ext(f.file)] = true
	}

	sorted := make([]string, 0, len(unique))
	for ext := range unique {
		sorted = append(sorted, ext)
	}
	sort.Strings(sorted)

	colors := make(map[string]string, len(sorted))
	for i, ext := range sorted {
		colors[ext] = extensionPalette[i%len(extensionPalette)]
	}
	return colors
}
