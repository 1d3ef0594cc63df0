package localize

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/localize/specifier"
)

// Layout selects how localized specifiers are computed.
type Layout int

const (
	// LayoutResolved derives each path from where the dependency is installed.
	LayoutResolved Layout = iota
	// LayoutFlat assumes every output file sits one directory below the
	// package root that holds the localized dependency directory.
	LayoutFlat
)

func (l Layout) String() string {
	switch l {
	case LayoutResolved:
		return "resolved"
	case LayoutFlat:
		return "flat"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout parses a layout name as accepted by String.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "resolved":
		return LayoutResolved, nil
	case "flat":
		return LayoutFlat, nil
	default:
		return 0, fmt.Errorf("unknown layout %q (want resolved or flat)", name)
	}
}

// Flat rewrites specifiers to ../local_<marker>/<specifier> without touching disk.
type Flat struct {
	Marker string
}

func (f Flat) Localize(_ func(error), _ string, input string) string {
	marker := f.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return "../" + LocalMarker(marker) + "/" + input
}

// Adapt binds a PathLocalizer to one reference file. Specifiers whose package
// is listed in externals are returned as authored; everything else is
// localized, with failures sent to report.
func Adapt(referenceFile string, externals []string, localizer PathLocalizer, report func(error)) func(string) string {
	excluded := make(map[string]bool, len(externals))
	for _, name := range externals {
		excluded[name] = true
	}

	return func(input string) string {
		if excluded[specifier.PackageName(input)] {
			return input
		}
		return localizer.Localize(report, referenceFile, input)
	}
}
