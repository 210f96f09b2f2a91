package ptyprocess

import (
	"fmt"
	"regexp"
	"time"
)

// Find searches accumulating child output for any of the given compiled
// patterns. Patterns are tried in list order on every pass; the first one
// whose Search succeeds at its earliest position in *that pass* wins --
// this is not "longest match" and not "earliest position across all
// patterns". On a match it returns the matched pattern's index and
// everything up to (and including) the match, with carriage returns
// already stripped, and retains the remainder in the cache. timeout==0
// performs a single pass; timeout<0 blocks until a match; timeout>0 polls
// until a match or the deadline. A miss returns (NoMatch, nil, nil) and
// leaves every byte it looked at back in the cache.
func (c *Controller) Find(patterns []*regexp.Regexp, timeout time.Duration) (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(patterns, timeout)
}

// FindString compiles patterns with multi-line and dot-matches-newline
// flags (so $ matches end-of-buffer as well as end-of-line, and . spans
// newlines) before delegating to Find.
func (c *Controller) FindString(patterns []string, timeout time.Duration) (int, []byte, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("(?ms)" + p)
		if err != nil {
			return NoMatch, nil, newError(ParseError, fmt.Sprintf("bad pattern %q", p), nil, err)
		}
		compiled[i] = re
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(compiled, timeout)
}

func (c *Controller) findLocked(patterns []*regexp.Regexp, timeout time.Duration) (int, []byte, error) {
	start := time.Now()
	data := c.drainCache()

	if len(data) == 0 {
		chunk, err := c.readLocked(0, pollDelay)
		if err != nil {
			return NoMatch, nil, err
		}
		data = append(data, chunk...)
	}

	for {
		for i, re := range patterns {
			if loc := re.FindIndex(data); loc != nil {
				matched := append([]byte(nil), data[:loc[1]]...)
				c.cache = append(c.cache, data[loc[1]:]...)
				return i, matched, nil
			}
		}

		if timeout == 0 {
			c.cache = append(c.cache, data...)
			return NoMatch, nil, nil
		}
		if timeout > 0 && time.Since(start) > timeout {
			c.cache = append(c.cache, data...)
			return NoMatch, nil, nil
		}

		chunk, err := c.readLocked(0, pollDelay)
		if err != nil {
			c.cache = append(c.cache, data...)
			return NoMatch, nil, err
		}
		data = append(data, chunk...)
	}
}
