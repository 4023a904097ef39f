package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockwire/mockwire/pkg/mock"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_NamedResource(t *testing.T) {
	t.Parallel()

	appDir := t.TempDir()
	writeFile(t, appDir, "users_success.json", `{"users":[]}`)

	l := NewLoader("", appDir)
	data, err := l.Load(mock.NamedResource("users_success"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[]}`, string(data))

	// Explicit extension also resolves.
	data, err = l.Load(mock.NamedResource("users_success.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[]}`, string(data))
}

// The test-scoped location shadows the application location.
func TestLoader_TestDirPrecedence(t *testing.T) {
	t.Parallel()

	testDir := t.TempDir()
	appDir := t.TempDir()
	writeFile(t, testDir, "users.json", `{"from":"test"}`)
	writeFile(t, appDir, "users.json", `{"from":"app"}`)

	l := NewLoader(testDir, appDir)
	data, err := l.Load(mock.NamedResource("users"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"test"}`, string(data))
}

func TestLoader_DirectLocation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "payload.json", `{"ok":true}`)

	l := NewLoader("", "")
	data, err := l.Load(mock.FileLocation(path))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestLoader_DataUnavailable(t *testing.T) {
	t.Parallel()

	l := NewLoader(t.TempDir(), t.TempDir())

	_, err := l.Load(mock.NamedResource("nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	var unavailable *DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "resource:nope", unavailable.Source, "error carries the attempted source")
}

func TestLoader_DirectLocationMissing(t *testing.T) {
	t.Parallel()

	l := NewLoader("", "")
	_, err := l.Load(mock.FileLocation(filepath.Join(t.TempDir(), "missing.json")))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoader_RejectsTraversal(t *testing.T) {
	t.Parallel()

	l := NewLoader(t.TempDir(), "")
	_, err := l.Load(mock.NamedResource("../../etc/passwd"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoader_InvalidSource(t *testing.T) {
	t.Parallel()

	l := NewLoader("", "")
	_, err := l.Load(mock.PayloadSource{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}
