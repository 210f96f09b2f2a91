package ptyprocess

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pattern first-in-list wins. The stream produces
// "ab" before find(["b","a"], timeout=1) runs; "b" is tried before "a" and
// matches somewhere in the buffered data, so it wins even though "a"
// matches at an earlier position in the buffer.
func TestFindFirstPatternWins(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write([]byte("ab\n")))
	time.Sleep(50 * time.Millisecond)

	idx, matched, err := c.FindString([]string{"b", "a"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "ab", string(matched))
}

// A pattern matching the empty string matches immediately without
// consuming any buffered bytes.
func TestFindEmptyPatternMatchesWithoutConsuming(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write([]byte("hello\n")))
	time.Sleep(50 * time.Millisecond)

	idx, matched, err := c.Find([]*regexp.Regexp{regexp.MustCompile("")}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "", string(matched))

	// Nothing was consumed: the full "hello" is still there to find.
	idx, matched, err = c.FindString([]string{"hello"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "hello", string(matched))
}

// A miss against a bounded timeout returns (NoMatch, nil, nil) and
// preserves every byte it looked at, so a later find against the right
// pattern still sees them.
func TestFindMissPreservesCache(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Write([]byte("hello\n")))
	time.Sleep(50 * time.Millisecond)

	idx, matched, err := c.FindString([]string{"zzz"}, 500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, NoMatch, idx)
	assert.Nil(t, matched)

	idx, matched, err = c.FindString([]string{"hello"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "hello", string(matched))
}

func TestFindBadPatternIsParseError(t *testing.T) {
	c, err := New([]string{"/bin/cat"})
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.FindString([]string{"("}, time.Second)
	require.Error(t, err)
	assert.Equal(t, ParseError, err.(*Error).Kind)
}
