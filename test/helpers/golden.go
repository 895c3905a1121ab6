package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv rewrites golden files from the actual output when set to 1.
const UpdateGoldenEnv = "PDFTAB_UPDATE_GOLDEN"

// AssertGolden compares actual with the golden file at relPath, resolved from
// the module root. Encoded outputs are compared byte for byte so CRLF and
// trailing newlines count.
func AssertGolden(t *testing.T, relPath string, actual []byte) {
	t.Helper()
	root, err := FindProjectRoot()
	require.NoError(t, err)
	path := filepath.Join(root, relPath)
	if os.Getenv(UpdateGoldenEnv) == "1" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, actual, 0o600))
	}
	expected, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file; rerun with %s=1", UpdateGoldenEnv)
	require.Equal(t, string(expected), string(actual))
}
