package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasConfigSubcommand(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "config")
}

func TestConfigCmd_HasExpectedSubcommands(t *testing.T) {
	configCmd := newConfigCmd()

	var names []string
	for _, sub := range configCmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "init")
	assert.Contains(t, names, "path")
	assert.Contains(t, names, "backup")
	assert.Contains(t, names, "restore")
	assert.Contains(t, names, "list-backups")
}

func TestConfigPathCmd_PrintsUserConfigPath(t *testing.T) {
	configCmd := newConfigCmd()
	buf := new(bytes.Buffer)
	configCmd.SetOut(buf)
	configCmd.SetErr(buf)
	configCmd.SetArgs([]string{"path"})

	require.NoError(t, configCmd.Execute())
	assert.Contains(t, buf.String(), "config.yaml")
}

func TestConfigRestoreCmd_RequiresOneArg(t *testing.T) {
	configCmd := newConfigCmd()
	buf := new(bytes.Buffer)
	configCmd.SetOut(buf)
	configCmd.SetErr(buf)
	configCmd.SetArgs([]string{"restore"})

	assert.Error(t, configCmd.Execute(), "restore requires a backup path argument")
}
