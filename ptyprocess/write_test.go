package ptyprocess

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoundTrip(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write([]byte("roundtrip\n")))

	data, err := c.Read(0, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip\n", string(data))
}

// A write larger than a single pty buffer still lands in full, across
// however many partial kernel writes it takes. The payload is split into
// lines because the pty stays in canonical mode, which caps one line at
// 4096 bytes.
func TestWriteLargePayload(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	payload := strings.Repeat(strings.Repeat("x", 1023)+"\n", 8)
	require.NoError(t, c.Write([]byte(payload)))

	var got []byte
	deadline := time.Now().Add(3 * time.Second)
	for len(got) < len(payload) && time.Now().Before(deadline) {
		chunk, err := c.Read(0, 200*time.Millisecond)
		require.NoError(t, err)
		got = append(got, chunk...)
	}
	assert.Equal(t, payload, string(got))
}

func TestWriteEmptyIsNoop(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write(nil))
}
