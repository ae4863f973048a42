package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceFixture = `package sample

func Greet(name string) string {
	return "hello " + name
}
`

const targetFixtureRenamed = `package sample

func Welcome(name string) string {
	return "hello " + name
}
`

func writeFixture(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompareCommand_DetectsRenameAcrossTrees(t *testing.T) {
	srcDir := filepath.Join(t.TempDir(), "src")
	tgtDir := filepath.Join(t.TempDir(), "tgt")
	writeFixture(t, srcDir, sourceFixture)
	writeFixture(t, tgtDir, targetFixtureRenamed)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"compare", srcDir, tgtDir})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "smartdiff:")
	assert.Contains(t, out.String(), "Greet -> Welcome")
}

func TestCompareCommand_IdenticalTreesReportNoChanges(t *testing.T) {
	srcDir := filepath.Join(t.TempDir(), "src")
	tgtDir := filepath.Join(t.TempDir(), "tgt")
	writeFixture(t, srcDir, sourceFixture)
	writeFixture(t, tgtDir, sourceFixture)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"compare", srcDir, tgtDir})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "0 changes")
}

func TestCompareCommand_RequiresTwoArgs(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"compare", "onlyone"})

	assert.Error(t, root.Execute())
}
