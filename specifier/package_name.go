package specifier

import (
	"regexp"
	"strings"
)

var scopedPackagePattern = regexp.MustCompile(`^@[^/]+/[^/]+`)

// PackageName returns the root package of a module specifier.
//
//	"@storybook/core/common" -> "@storybook/core"
//	"lodash/get"             -> "lodash"
//
// A scoped specifier without a name segment ("@scope") yields "", which callers
// treat as a specifier that cannot be classified.
func PackageName(input string) string {
	if strings.HasPrefix(input, "@") {
		return scopedPackagePattern.FindString(input)
	}

	name, _, _ := strings.Cut(input, "/")
	return name
}

// Subpath returns the part of the specifier after its package name, including
// the leading slash, or "" when the specifier addresses the package root.
func Subpath(input string) string {
	name := PackageName(input)
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(input, name)
}

// IsRelative reports whether the specifier addresses a file relative to the importer.
func IsRelative(input string) bool {
	return strings.HasPrefix(input, ".")
}
