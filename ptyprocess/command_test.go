package ptyprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandString(t *testing.T) {
	argv, err := ParseCommand(`/bin/sh -c "echo 'hello world'"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/sh", "-c", "echo 'hello world'"}, argv)
}

func TestParseCommandStringEmpty(t *testing.T) {
	_, err := ParseCommand("   ")
	require.Error(t, err)
	assert.Equal(t, BadParameter, err.(*Error).Kind)
}

func TestParseCommandSlice(t *testing.T) {
	argv, err := ParseCommand([]string{"/bin/cat"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/cat"}, argv)
}

func TestParseCommandSliceEmpty(t *testing.T) {
	_, err := ParseCommand([]string{})
	require.Error(t, err)
	assert.Equal(t, BadParameter, err.(*Error).Kind)
}

func TestParseCommandBadType(t *testing.T) {
	_, err := ParseCommand(42)
	require.Error(t, err)
	assert.Equal(t, BadParameter, err.(*Error).Kind)
}
