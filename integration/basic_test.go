//go:build basic

package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOUREMEMBER_DB_BACKEND", "sqlite")
	t.Setenv("DOUREMEMBER_DB_CONNECT", filepath.Join(dir, "douremember.db"))
	t.Setenv("DOUREMEMBER_STORAGE_BACKEND", "local")
	t.Setenv("DOUREMEMBER_STORAGE_DIR", filepath.Join(dir, "objects"))
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "douremember CLI")
}

func TestCareGroupFlowWithSQLite(t *testing.T) {
	sqliteEnv(t)
	seedCareGroup(t)

	out, err := runCommand(t, "images", "list", "--user", "c1", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "un perro en el parque")

	out, err = runCommand(t, "reports", "list", "--user", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Aún no hay reportes para este paciente.")

	_, err = runCommand(t, "reports", "export", "--user", "c1")
	require.Error(t, err, "export without reports must fail")

	out, err = runCommand(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Store Backend: sqlite")

	_, err = runCommand(t, "store", "clear")
	require.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	sqliteEnv(t)
	_, err := runCommand(t, "reports", "list", "--user", "c1", "--precision", "5")
	require.Error(t, err)

	_, err = runCommand(t, "reports", "list")
	require.Error(t, err, "reports need an acting user")
}
