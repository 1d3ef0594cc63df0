package testhelpers

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// JavaScriptGoldie returns a goldie instance for rewritten JavaScript output.
func JavaScriptGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.js"))
}

// DotGoldie returns a goldie instance for Graphviz output.
func DotGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.dot"))
}

// TextGoldie returns a goldie instance for plain text output.
func TextGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}
