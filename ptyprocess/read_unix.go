//go:build unix

package ptyprocess

import (
	"time"

	"golang.org/x/sys/unix"
)

// Read pulls data accumulated from the child's combined stdout/stderr
// stream. size==0 means "return whatever arrives on the next successful
// read"; size>0 means "return at most this many bytes". timeout==0 blocks
// until data arrives; timeout<0 returns after a single poll cycle,
// possibly empty; timeout>0 polls until satisfied or until the deadline,
// returning whatever has accumulated.
func (c *Controller) Read(size int, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked(size, timeout)
}

func (c *Controller) readLocked(size int, timeout time.Duration) ([]byte, error) {
	if !c.aliveLocked(false) {
		return nil, newError(IoError, "process I/O failed", c.cacheTail(), nil)
	}

	start := time.Now()

	for {
		if out, ok := c.takeFromCache(size); ok {
			return out, nil
		}

		ready, err := pollFD(int(c.master.Fd()), pollDelay, false)
		if err != nil {
			return nil, newError(IoError, "select on pty failed", c.cacheTail(), err)
		}

		if ready {
			buf := make([]byte, chunkSize)
			n, rerr := unix.Read(int(c.master.Fd()), buf)
			if rerr == unix.EINTR {
				continue
			}
			if rerr != nil {
				return nil, newError(IoError, "read from pty failed", c.cacheTail(), rerr)
			}
			if n == 0 {
				tail := c.cacheTail()
				c.finalizeLocked(nil, false)
				return nil, newError(UnexpectedEOF, "unexpected EOF", tail, nil)
			}

			chunk := stripCR(buf[:n])
			c.logRead(chunk)
			c.cache = append(c.cache, chunk...)
		}

		if out, ok := c.takeFromCache(size); ok {
			return out, nil
		}

		switch {
		case timeout == 0:
			// Block until data arrives: no early return on an empty poll.
		case timeout < 0:
			return c.drainCache(), nil
		default:
			if time.Since(start) > timeout {
				return c.drainCache(), nil
			}
		}
	}
}

// takeFromCache returns (data, true) if the cache already satisfies size
// (or size==0 and the cache is non-empty), consuming what it returns.
func (c *Controller) takeFromCache(size int) ([]byte, bool) {
	if len(c.cache) == 0 {
		return nil, false
	}
	if size == 0 {
		return c.drainCache(), true
	}
	if len(c.cache) >= size {
		out := append([]byte(nil), c.cache[:size]...)
		c.cache = c.cache[size:]
		return out, true
	}
	return nil, false
}

func (c *Controller) drainCache() []byte {
	out := c.cache
	c.cache = nil
	return out
}

// stripCR removes carriage returns from newly read bytes: the cache must
// never contain 0x0D, though newlines are preserved.
func stripCR(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b != '\r' {
			out = append(out, b)
		}
	}
	return out
}
