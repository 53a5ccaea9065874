package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"scan", "parse", "emit", "roundtrip"}, names)
}

func TestSubcommandsRequireExactlyOneFile(t *testing.T) {
	for _, use := range []string{"scan", "parse", "emit", "roundtrip"} {
		t.Run(use, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs([]string{use})
			err := root.Execute()
			require.Error(t, err)
		})
	}
}

func TestCommandsOnFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a:\n  - 1\n  - 2\nb: c\n"), 0o644))

	for _, use := range []string{"scan", "parse", "roundtrip"} {
		t.Run(use, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs([]string{use, path})
			require.NoError(t, root.Execute())
		})
	}
}

func TestScanAndParseOnMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"scan", "/no/such/file.yaml"})
	require.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"parse", "/no/such/file.yaml"})
	require.Error(t, root.Execute())
}
