package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort(t *testing.T) {
	t.Setenv("TEST_PORT", "")
	p, err := Port("TEST_PORT", "8080")
	require.NoError(t, err)
	assert.Equal(t, "8080", p)

	t.Setenv("TEST_PORT", "70000")
	_, err = Port("TEST_PORT", "8080")
	assert.Error(t, err)
}

func TestRequiredString(t *testing.T) {
	t.Setenv("TEST_REQUIRED", "")
	_, err := RequiredString("TEST_REQUIRED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_REQUIRED")
}

func TestTypedValues(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_DURATION", "750ms")
	t.Setenv("TEST_LIST", " a, ,b ,c")

	n, err := Int("TEST_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	b, err := Bool("TEST_BOOL", true)
	require.NoError(t, err)
	assert.False(t, b)

	d, err := Duration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, d)

	assert.Equal(t, []string{"a", "b", "c"}, List("TEST_LIST"))
}

func TestTypedValues_Invalid(t *testing.T) {
	t.Setenv("TEST_INT", "many")
	t.Setenv("TEST_BOOL", "perhaps")
	t.Setenv("TEST_DURATION", "-1s")

	_, err := Int("TEST_INT", 1)
	assert.Error(t, err)
	_, err = Bool("TEST_BOOL", true)
	assert.Error(t, err)
	_, err = Duration("TEST_DURATION", time.Second)
	assert.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ROOMBOOK_DOTENV_A=from-file\nROOMBOOK_DOTENV_B=from-file\n"), 0o600))

	t.Setenv("ROOMBOOK_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("ROOMBOOK_DOTENV_A") })

	require.NoError(t, LoadDotenv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("ROOMBOOK_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("ROOMBOOK_DOTENV_B"))
}
