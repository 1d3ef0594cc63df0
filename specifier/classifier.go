package specifier

import "strings"

// Kind is the classification of a module specifier.
type Kind int

const (
	// KindRelative specifiers start with "." and address files in the same tree.
	KindRelative Kind = iota
	// KindBuiltin specifiers name a platform built-in module.
	KindBuiltin
	// KindPackage specifiers name a third-party package and are eligible for localization.
	KindPackage
)

func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindBuiltin:
		return "builtin"
	case KindPackage:
		return "package"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classifier decides which specifiers need localization. It holds no state
// besides the built-in lookup set and is safe for concurrent use.
type Classifier struct {
	builtins map[string]bool
}

// NewClassifier returns a classifier using the Node.js built-in set plus any extra names.
func NewClassifier(extraBuiltins ...string) *Classifier {
	builtins := NodeBuiltins()
	for _, name := range extraBuiltins {
		name = strings.TrimSpace(name)
		if name != "" {
			builtins[name] = true
		}
	}
	return &Classifier{builtins: builtins}
}

// Classify returns the kind of the specifier.
func (c *Classifier) Classify(input string) Kind {
	if IsRelative(input) {
		return KindRelative
	}

	name := PackageName(input)
	if strings.HasPrefix(name, NodeBuiltinPrefix) || c.builtins[name] {
		return KindBuiltin
	}

	return KindPackage
}

// NeedsLocalization reports whether the specifier must be rewritten into the
// localized dependency directory.
func (c *Classifier) NeedsLocalization(input string) bool {
	return c.Classify(input) == KindPackage
}

// NeedsLocalization classifies input against the default Node.js built-in set.
func NeedsLocalization(input string) bool {
	return defaultClassifier.NeedsLocalization(input)
}

var defaultClassifier = NewClassifier()
