package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICS_RequiresArgs(t *testing.T) {
	_, err := runCommand(t, "ics")
	assert.Error(t, err)
}

func TestICS_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.pdf")
	_, err := runCommand(t, "ics", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestICS_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := runCommand(t, "ics", path)
	assert.Error(t, err)
}
