package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("D2W_TEST_NAME", "from-env")
	p := writeConfig(t, "name: ${D2W_TEST_NAME}\ncount: 3\n")

	var s sample
	require.NoError(t, Load(p, &s))
	assert.Equal(t, sample{Name: "from-env", Count: 3}, s)
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	p := writeConfig(t, "name: x\n")

	s := sample{Count: 7}
	require.NoError(t, Load(p, &s))
	assert.Equal(t, 7, s.Count)
}

func TestLoad_ValidationFails(t *testing.T) {
	p := writeConfig(t, "count: 1\n")

	var s sample
	err := Load(p, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	assert.ErrorIs(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &s), os.ErrNotExist)
}

func TestLoadOptional_EmptyFilenameValidatesDefaults(t *testing.T) {
	s := sample{Name: "default"}
	require.NoError(t, LoadOptional("", &s))
	assert.Equal(t, "default", s.Name)

	var empty sample
	assert.Error(t, LoadOptional("", &empty))
}
