package localize

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/localize/specifier"
)

// DefaultMarker is the directory name that holds installed dependencies.
const DefaultMarker = "node_modules"

// LocalMarker returns the renamed dependency directory for marker.
func LocalMarker(marker string) string {
	return "local_" + marker
}

// PathLocalizer rewrites a specifier so it addresses the localized dependency directory.
// Failures are passed to report and the specifier is returned unchanged.
type PathLocalizer interface {
	Localize(report func(error), referenceFile, input string) string
}

// Localizer computes localized specifiers from where dependencies are installed on disk.
type Localizer struct {
	resolver Resolver
	marker   string
}

// New returns a Localizer. A nil resolver searches marker directories with NodeResolver.
func New(resolver Resolver, marker string) *Localizer {
	if marker == "" {
		marker = DefaultMarker
	}
	if resolver == nil {
		resolver = NewNodeResolver(marker)
	}
	return &Localizer{resolver: resolver, marker: marker}
}

// Marker returns the dependency directory name this localizer rewrites.
func (l *Localizer) Marker() string {
	return l.marker
}

// Localize returns input rewritten relative to referenceFile, for example
// "lodash/get" from /repo/pkg/src/index.js with lodash installed in
// /repo/node_modules becomes "../../local_modules/lodash/get".
// It never fails: errors go to report (when non-nil) and input is returned.
func (l *Localizer) Localize(report func(error), referenceFile, input string) string {
	out, err := l.localize(referenceFile, input)
	if err != nil {
		if report != nil {
			report(err)
		}
		return input
	}
	return out
}

func (l *Localizer) localize(referenceFile, input string) (string, error) {
	packageName := specifier.PackageName(input)
	fail := func(err error) error {
		return &ResolutionError{Reference: referenceFile, Specifier: input, Package: packageName, Err: err}
	}

	if packageName == "" {
		return "", fail(ErrNoPackageName)
	}

	refDir := realDir(referenceFile)

	root, err := l.resolver.ResolvePackageRoot(refDir, packageName)
	if err != nil {
		return "", fail(err)
	}

	rel, err := filepath.Rel(refDir, root)
	if err != nil {
		return "", fail(err)
	}

	prefix, ok := boundaryPrefix(filepath.ToSlash(rel), packageName, l.marker)
	if !ok {
		return "", fail(fmt.Errorf("%w: %s", ErrNoBoundary, filepath.ToSlash(rel)))
	}

	return joinSpecifier(prefix, input), nil
}

// boundaryPrefix keeps rel up to and including the last segment that is either
// ".." or marker and is directly followed by the package's segments. The
// boundary segment is renamed when it is the marker.
func boundaryPrefix(rel, packageName, marker string) ([]string, bool) {
	segments := strings.Split(rel, "/")
	pkgSegments := strings.Split(packageName, "/")

	for i := len(segments) - len(pkgSegments) - 1; i >= 0; i-- {
		if segments[i] != ".." && segments[i] != marker {
			continue
		}
		if !hasSegments(segments[i+1:], pkgSegments) {
			continue
		}

		prefix := append([]string(nil), segments[:i+1]...)
		if prefix[i] == marker {
			prefix[i] = LocalMarker(marker)
		}
		return prefix, true
	}

	return nil, false
}

func hasSegments(segments, want []string) bool {
	if len(segments) < len(want) {
		return false
	}
	for i := range want {
		if segments[i] != want[i] {
			return false
		}
	}
	return true
}

// joinSpecifier appends the original specifier to the prefix. The result is
// always relative ("./" or "../") and keeps a trailing slash from input, which
// concatenated specifiers like 'foo/' + name depend on.
func joinSpecifier(prefix []string, input string) string {
	full := path.Join(append(prefix, input)...)
	if strings.HasSuffix(input, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}
	if !strings.HasPrefix(full, "./") && !strings.HasPrefix(full, "../") {
		full = "./" + full
	}
	return full
}

func realDir(file string) string {
	dir := filepath.Dir(file)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	return dir
}
