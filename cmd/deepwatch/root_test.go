package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "deepwatch version 0.1.0\n", out)
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.yaml")
	script := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("a: 1\n"), 0644))
	require.NoError(t, os.WriteFile(script, []byte("- op: set\n  path: a\n  value: 2\n"), 0644))

	out, err := run(t, "apply", doc, script, "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "changed  a = 2\n---\na: 2\n", out)
}

func TestPathsCommand(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("a: {b: []}\n"), 0644))

	out, err := run(t, "paths", doc)
	require.NoError(t, err)
	assert.Equal(t, "$\na\na.b\n", out)
}

func TestApplyCommand_RequiresArgs(t *testing.T) {
	_, err := run(t, "apply", "only-one")
	assert.Error(t, err)
}
