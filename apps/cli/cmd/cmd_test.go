package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/envrx/packages/store"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	// Reset state left behind by previous runs
	databaseFlag = ""
	collectionFlag = ""
	loadFormatFlag = ""
	loadToStoreFlag = false
	loadExportFlag = false
	syncWatchFlag = false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "envs.db")
}

func TestSetGetUpdateDeleteList(t *testing.T) {
	db := testDB(t)

	out, err := runCommand(t, "-d", db, "-c", "envs", "set", "API_KEY", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "stored API_KEY")

	out, err = runCommand(t, "-d", db, "-c", "envs", "get", "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "secret\n", out)

	_, err = runCommand(t, "-d", db, "-c", "envs", "set", "API_KEY", "other")
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	out, err = runCommand(t, "-d", db, "-c", "envs", "update", "API_KEY", "rotated")
	require.NoError(t, err)
	assert.Contains(t, out, "updated API_KEY")

	_, err = runCommand(t, "-d", db, "-c", "envs", "set", "HOST", "localhost")
	require.NoError(t, err)

	out, err = runCommand(t, "-d", db, "-c", "envs", "list")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=rotated\nHOST=localhost\n", out)

	out, err = runCommand(t, "-d", db, "-c", "envs", "delete", "HOST")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted HOST")

	_, err = runCommand(t, "-d", db, "-c", "envs", "get", "HOST")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetWithoutDatabase(t *testing.T) {
	t.Setenv("ENVRX_DATABASE_URL", "")
	t.Setenv("ENVRX_COLLECTION", "")

	_, err := runCommand(t, "get", "API_KEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestDatabaseFromEnvironment(t *testing.T) {
	t.Setenv("ENVRX_DATABASE_URL", testDB(t))
	t.Setenv("ENVRX_COLLECTION", "envs")

	_, err := runCommand(t, "set", "KEY", "value")
	require.NoError(t, err)

	out, err := runCommand(t, "get", "KEY")
	require.NoError(t, err)
	assert.Equal(t, "value\n", out)
}

func TestLoadPrintsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("B=2\nA=1\n"), 0644))

	out, err := runCommand(t, "load", path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", out)
}

func TestLoadToStore(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HOST=localhost\nPORT=8080\n"), 0644))

	_, err := runCommand(t, "-d", db, "-c", "envs", "load", path, "--to-store")
	require.NoError(t, err)

	out, err := runCommand(t, "-d", db, "-c", "envs", "list")
	require.NoError(t, err)
	assert.Equal(t, "HOST=localhost\nPORT=8080\n", out)

	// Loading again refreshes existing keys instead of failing
	require.NoError(t, os.WriteFile(path, []byte("HOST=remote\n"), 0644))
	_, err = runCommand(t, "-d", db, "-c", "envs", "load", path, "--to-store")
	require.NoError(t, err)

	out, err = runCommand(t, "-d", db, "-c", "envs", "get", "HOST")
	require.NoError(t, err)
	assert.Equal(t, "remote\n", out)
}

func TestLoadExport(t *testing.T) {
	t.Setenv("ENVRX_TEST_EXPORT_HOST", "")
	t.Setenv("ENVRX_TEST_EXPORT_PORT", "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ENVRX_TEST_EXPORT_HOST=localhost\nENVRX_TEST_EXPORT_PORT=8080\n"), 0644))

	out, err := runCommand(t, "load", path, "--export")
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 entries")

	assert.Equal(t, "localhost", os.Getenv("ENVRX_TEST_EXPORT_HOST"))
	assert.Equal(t, "8080", os.Getenv("ENVRX_TEST_EXPORT_PORT"))
}

func TestSyncOnce(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEY=value\n"), 0644))

	out, err := runCommand(t, "-d", db, "-c", "envs", "sync", path)
	require.NoError(t, err)
	assert.Contains(t, out, "synced 1 entries")

	out, err = runCommand(t, "-d", db, "-c", "envs", "get", "KEY")
	require.NoError(t, err)
	assert.Equal(t, "value\n", out)
}

func TestExitCodes(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, "-d", db, "-c", "envs", "get", "MISSING")
	assert.Equal(t, ExitKeyError, exitCode(err))

	_, err = runCommand(t, "-d", "mysql://localhost/db", "-c", "envs", "list")
	assert.Equal(t, ExitConnectionError, exitCode(err))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = runCommand(t, "load", path)
	assert.Equal(t, ExitParseError, exitCode(err))

	assert.Equal(t, ExitSuccess, exitCode(nil))
}
