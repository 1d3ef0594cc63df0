package localize

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvable matches every ResolutionError.
	ErrUnresolvable = errors.New("unresolvable specifier")
	// ErrPackageNotFound is returned by resolvers when no manifest is found.
	ErrPackageNotFound = errors.New("package manifest not found")
	// ErrNoPackageName is reported for specifiers without a package name ("@scope", "/abs").
	ErrNoPackageName = errors.New("specifier has no package name")
	// ErrNoBoundary is reported when the relative path to the package root does not
	// cross a dependency directory.
	ErrNoBoundary = errors.New("no dependency directory boundary")
)

// ResolutionError describes a specifier that could not be localized. The
// specifier is left unchanged when this error is reported.
type ResolutionError struct {
	Reference string
	Specifier string
	Package   string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot localize %q (package %q) from %s: %v", e.Specifier, e.Package, e.Reference, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{ErrUnresolvable, e.Err}
}
