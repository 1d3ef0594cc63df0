package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LegacyCodeHQ/localize/specifier"
	"github.com/LegacyCodeHQ/localize/transform"
)

type textStyles struct {
	file     lipgloss.Style
	position lipgloss.Style
	kind     map[specifier.Kind]lipgloss.Style
	arrow    lipgloss.Style
	external lipgloss.Style
	err      lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		file:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		position: r.NewStyle().Foreground(lipgloss.Color("242")),
		kind: map[specifier.Kind]lipgloss.Style{
			specifier.KindRelative: r.NewStyle().Foreground(lipgloss.Color("245")),
			specifier.KindBuiltin:  r.NewStyle().Foreground(lipgloss.Color("141")),
			specifier.KindPackage:  r.NewStyle().Foreground(lipgloss.Color("214")),
		},
		arrow:    r.NewStyle().Foreground(lipgloss.Color("42")),
		external: r.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		err:      r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// writeText prints one block per file with a row per construct.
func writeText(w io.Writer, files []fileEntries) error {
	styles := newTextStyles(w)
	var sb strings.Builder

	for i, f := range files {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(styles.file.Render(f.file))
		sb.WriteString("\n")

		if len(f.entries) == 0 {
			sb.WriteString(styles.position.Render("  no module specifiers"))
			sb.WriteString("\n")
			continue
		}

		specWidth := 0
		for _, e := range f.entries {
			specWidth = max(specWidth, len(e.Specifier))
		}

		for _, e := range f.entries {
			sb.WriteString("  ")
			sb.WriteString(styles.position.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%d:%d", e.Line, e.Column))))
			sb.WriteString(fmt.Sprintf(" %-15s ", e.Construct))
			sb.WriteString(describe(e, specWidth, styles))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func describe(e transform.Entry, specWidth int, styles textStyles) string {
	if e.Specifier == "" && e.Error != "" {
		return styles.err.Render(e.Error)
	}
	if e.Note != "" {
		return styles.position.Render(e.Note)
	}

	parts := []string{
		fmt.Sprintf("%-*s", specWidth, e.Specifier),
		styles.kind[e.Kind].Render(fmt.Sprintf("%-8s", e.Kind)),
	}
	switch {
	case e.External:
		parts = append(parts, styles.external.Render("external"))
	case e.Localized != "":
		parts = append(parts, styles.arrow.Render("-> "+e.Localized))
	case e.Error != "":
		parts = append(parts, styles.err.Render(e.Error))
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}
