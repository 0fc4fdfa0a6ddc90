package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// addModuleBytes is (module (func (export "add") (param i32 i32) (result
// i32) local.get 0 local.get 1 i32.add)).
var addModuleBytes = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
}

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRunInvokesExportedFunctionAndPrintsSingleResult(t *testing.T) {
	path := writeFixture(t, "add.wasm", addModuleBytes)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{path, "--invoke", "add", "2", "3"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "5\n", out.String())
}

func TestRunRejectsWatInput(t *testing.T) {
	path := writeFixture(t, "add.wat", []byte("(module)"))

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "text-format front end")
}

func TestRunRejectsArityMismatch(t *testing.T) {
	path := writeFixture(t, "add.wasm", addModuleBytes)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{path, "--invoke", "add", "2"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "expects 2 argument")
}

func TestRunUnknownCompilationMode(t *testing.T) {
	path := writeFixture(t, "add.wasm", addModuleBytes)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{path, "--compilation-mode", "bogus"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown --compilation-mode")
}
