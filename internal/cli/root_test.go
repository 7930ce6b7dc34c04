package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Metadata(t *testing.T) {
	cmd := GetRootCmd()

	assert.Equal(t, "tripkit", cmd.Use)
	assert.Equal(t, GetVersion(), cmd.Version)
	assert.NotEmpty(t, cmd.Short)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := GetRootCmd()

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "", cfg.DefValue)

	level := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, level)
	assert.Equal(t, "info", level.DefValue)
}

func TestRootCmd_HasProbeSubcommand(t *testing.T) {
	var found bool
	for _, sub := range GetRootCmd().Commands() {
		if sub.Name() == "probe" {
			found = true
		}
	}
	assert.True(t, found)
}
