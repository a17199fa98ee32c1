package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "importgroups ")
	assert.Contains(t, out.String(), "commit: ")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "annotate")
	assert.Contains(t, names, "version")
	assert.NotNil(t, root.Flags().Lookup("dry-run"))
}
