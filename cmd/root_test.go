package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	// Capture output
	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "qutimport converts chat histories")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Available Commands:")
	for _, name := range []string{"miranda", "contacts", "centericq", "qip", "miranda-xml", "skype", "sms", "merge", "sort"} {
		assert.Contains(t, output, name)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.3.0", GetVersion())

	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, rootCmd.Execute())
	assert.Equal(t, "qutimport 0.3.0\n", b.String())
}

func TestVersion_ListsCrashLogs(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, ".qutimport", "crash_logs")
	require.NoError(t, os.MkdirAll(logDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "crash_20250101_120000.log"), []byte("x"), 0644))

	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetArgs([]string{"version", "--crash-logs", dir})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, b.String(), "crash_20250101_120000.log")

	rootCmd.SetArgs([]string{"version", "--crash-logs", ""})
	require.NoError(t, rootCmd.Execute())
}
