// Package sourcemap builds version 3 source maps for sources that were changed
// by in-place text replacements.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Replacement substitutes Text for the original bytes in [Start, End).
type Replacement struct {
	Start int
	End   int
	Text  string
}

// Generate maps the output of applying replacements to original back to the
// original source. Unchanged text maps column for column; each replacement
// maps to the start of the text it replaced. Columns count UTF-16 code units.
func Generate(file, source string, original []byte, replacements []Replacement) (*Map, error) {
	sorted := make([]Replacement, len(replacements))
	copy(sorted, replacements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	g := &generator{}
	last := 0
	for _, r := range sorted {
		if r.Start < last || r.End < r.Start || r.End > len(original) {
			return nil, fmt.Errorf("replacement [%d,%d) out of order or out of range", r.Start, r.End)
		}
		g.copy(original[last:r.Start])
		g.replace(original[r.Start:r.End], r.Text)
		last = r.End
	}
	g.copy(original[last:])

	return &Map{
		Version:        3,
		File:           file,
		Sources:        []string{source},
		SourcesContent: []string{string(original)},
		Names:          []string{},
		Mappings:       g.mappings.String(),
	}, nil
}

// Encode returns the JSON form of the map.
func (m *Map) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source map: %w", err)
	}
	return data, nil
}

// Comment returns the trailing comment that links generated code to its map.
func Comment(mapFile string) string {
	return "//# sourceMappingURL=" + mapFile
}

type generator struct {
	mappings strings.Builder

	genCol  int
	srcLine int
	srcCol  int

	prevGenCol     int
	prevSrcLine    int
	prevSrcCol     int
	lineHasMapping bool
}

func (g *generator) segment() {
	if g.lineHasMapping {
		g.mappings.WriteByte(',')
	}
	writeVLQ(&g.mappings, g.genCol-g.prevGenCol)
	writeVLQ(&g.mappings, 0)
	writeVLQ(&g.mappings, g.srcLine-g.prevSrcLine)
	writeVLQ(&g.mappings, g.srcCol-g.prevSrcCol)

	g.prevGenCol = g.genCol
	g.prevSrcLine = g.srcLine
	g.prevSrcCol = g.srcCol
	g.lineHasMapping = true
}

func (g *generator) newline() {
	g.mappings.WriteByte(';')
	g.genCol = 0
	g.prevGenCol = 0
	g.lineHasMapping = false
}

// copy advances over unchanged text, starting a mapping at its beginning and
// at the start of every line inside it.
func (g *generator) copy(text []byte) {
	if len(text) == 0 {
		return
	}
	g.segment()
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		i += size
		if r == '\n' {
			g.newline()
			g.srcLine++
			g.srcCol = 0
			if i < len(text) {
				g.segment()
			}
			continue
		}
		w := utf16Len(r)
		g.genCol += w
		g.srcCol += w
	}
}

func (g *generator) replace(original []byte, text string) {
	g.segment()
	for _, r := range text {
		if r == '\n' {
			g.newline()
			continue
		}
		g.genCol += utf16Len(r)
	}
	for i := 0; i < len(original); {
		r, size := utf8.DecodeRune(original[i:])
		i += size
		if r == '\n' {
			g.srcLine++
			g.srcCol = 0
			continue
		}
		g.srcCol += utf16Len(r)
	}
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
