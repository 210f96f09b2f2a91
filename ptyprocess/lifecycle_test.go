package ptyprocess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliveWhileRunning(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Alive(false))
}

func TestAliveWithoutRecoverStaysDead(t *testing.T) {
	c, err := New([]string{"/bin/sh", "-c", "exit 0"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Wait())
	assert.False(t, c.Alive(false))
	assert.Equal(t, 0, c.RecoverAttempts())
}

func TestWaitIsIdempotentAfterDeath(t *testing.T) {
	c, err := New([]string{"/bin/sh", "-c", "exit 3"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Wait())
	require.NoError(t, c.Wait())

	code, ok := c.ExitCode()
	require.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestCloseKillsLiveChild(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)

	require.True(t, c.Alive(false))
	require.NoError(t, c.Close())

	sig, ok := c.ExitSignal()
	require.True(t, ok)
	assert.Equal(t, 9, sig)
	assert.False(t, c.Alive(false))
}

func TestAutopsyReportsAliveProcess(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	assert.Contains(t, c.Autopsy(), "alive")
}

func TestAutopsyReportsExitCode(t *testing.T) {
	c, err := New([]string{"/bin/sh", "-c", "exit 5"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Wait())
	autopsy := c.Autopsy()
	assert.Contains(t, autopsy, "exit code  : 5")
	assert.Contains(t, autopsy, "exit signal: <nil>")
}

func TestResizeLiveChild(t *testing.T) {
	c, err := New([]string{"/bin/cat"}, WithSize(24, 80))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Resize(30, 100))
}

func TestResizeDeadChildIsIoError(t *testing.T) {
	c, err := New([]string{"/bin/sh", "-c", "exit 0"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Wait())

	err = c.Resize(30, 100)
	require.Error(t, err)
	assert.Equal(t, IoError, err.(*Error).Kind)
}

func TestCommandIsPreserved(t *testing.T) {
	c, err := New([]string{"/bin/sh", "-c", "exit 0"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"/bin/sh", "-c", "exit 0"}, c.Command())
}

func TestSpawnFailureForMissingBinary(t *testing.T) {
	_, err := New([]string{"/no/such/binary-xyz"})
	require.Error(t, err)
	assert.Equal(t, SpawnFailed, err.(*Error).Kind)
}

// Sanity check that a spawned child really is reachable through the pty
// within a short window, to catch regressions in the spawn path itself
// rather than relying only on downstream read/write scenarios.
func TestSpawnedChildRespondsQuickly(t *testing.T) {
	c, err := New([]string{"/bin/echo", "ready"})
	require.NoError(t, err)
	defer c.Close()

	data, err := c.Read(0, 2*time.Second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ready")
}
