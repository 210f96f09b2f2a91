//go:build unix

package ptyprocess

import "golang.org/x/sys/unix"

// Write repeatedly attempts to push data into the child's stdin until all
// of it has been handed to the kernel. Partial writes are expected on ptys
// with full kernel buffers; there is no timeout, since a well-behaved
// child eventually drains its input -- misbehaving children are a
// session-layer concern.
func (c *Controller) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(data)
}

func (c *Controller) writeLocked(data []byte) error {
	if !c.aliveLocked(false) {
		return newError(IoError, "cannot write to dead process", c.cacheTail(), nil)
	}

	c.logWrite(data)

	for len(data) > 0 {
		ready, err := pollFD(int(c.master.Fd()), pollDelay, true)
		if err != nil {
			return newError(IoError, "select on pty failed", c.cacheTail(), err)
		}
		if !ready {
			continue
		}

		n, werr := unix.Write(int(c.master.Fd()), data)
		if werr == unix.EINTR {
			continue
		}
		if werr != nil {
			return newError(IoError, "write to pty failed", c.cacheTail(), werr)
		}
		data = data[n:]
	}

	return nil
}
