package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])
	assert.True(t, names["create-admin"])
}

func TestSeedRequiresConfirmation(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"seed", "--orders", "3"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, 3, seedOpts.Orders)
}

func TestCreateAdminChecksPassword(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	rootCmd.SetArgs([]string{"create-admin", "root@nexis.io", "--password", "short"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8")
}
