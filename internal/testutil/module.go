package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree writes files (slash-separated relative path -> content) under a
// fresh temporary directory and returns its path.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

// WriteModule is WriteTree with a go.mod declaring modulePath at the root.
func WriteModule(t testing.TB, modulePath string, files map[string]string) string {
	t.Helper()
	all := make(map[string]string, len(files)+1)
	for k, v := range files {
		all[k] = v
	}
	all["go.mod"] = "module " + modulePath + "\n\ngo 1.24\n"
	return WriteTree(t, all)
}
