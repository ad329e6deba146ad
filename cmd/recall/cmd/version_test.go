package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallkit/recall/pkg/version"
)

func TestVersionCmd_Default(t *testing.T) {
	stdout, _, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "recall")
	assert.Contains(t, stdout, version.Version)
}

func TestVersionCmd_Short(t *testing.T) {
	stdout, _, err := runCommand(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestVersionCmd_JSON(t *testing.T) {
	stdout, _, err := runCommand(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.NotEmpty(t, info["go_version"])
}
