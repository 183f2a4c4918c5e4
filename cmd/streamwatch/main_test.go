package main

import (
	"streamwatch/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ServesByDefault(t *testing.T) {
	var got *structures.CliFlags
	root := newRootCmd(func(flags *structures.CliFlags) error {
		got = flags
		return nil
	})
	root.SetArgs([]string{"--config", "/etc/streamwatch/config.yml", "--debug"})

	require.NoError(t, root.Execute())
	require.NotNil(t, got)
	assert.Equal(t, "/etc/streamwatch/config.yml", got.ConfigPath)
	assert.True(t, got.DebugMode)
}

func TestRootCmd_ServeSubcommand(t *testing.T) {
	calls := 0
	root := newRootCmd(func(flags *structures.CliFlags) error {
		calls++
		assert.Equal(t, "config.yml", flags.ConfigPath)
		return nil
	})
	root.SetArgs([]string{"serve"})

	require.NoError(t, root.Execute())
	assert.Equal(t, 1, calls)
}
