package resolve

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/localize/localize"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	manifest := filepath.Join(dir, "node_modules", "@scope", "util", "package.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(manifest), 0o755))
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0o644))

	out, err := execute(t, filepath.Join(dir, "src", "index.js"), "@scope/util/lib/x")
	require.NoError(t, err)

	assert.Equal(t, `specifier: @scope/util/lib/x
package:   @scope/util
kind:      package
localized: ../local_modules/@scope/util/lib/x
`, out)
}

func TestResolveCommand_Relative(t *testing.T) {
	out, err := execute(t, "src/index.js", "./a")
	require.NoError(t, err)

	assert.Equal(t, `specifier: ./a
kind:      relative
localized: ./a
`, out)
}

func TestResolveCommand_Unresolvable(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, filepath.Join(dir, "index.js"), "not-installed")

	assert.ErrorIs(t, err, localize.ErrUnresolvable)
	assert.Contains(t, out, "localized: not-installed\n")
}

func TestResolveCommand_RequiresTwoArguments(t *testing.T) {
	_, err := execute(t, "src/index.js")
	assert.Error(t, err)
}
