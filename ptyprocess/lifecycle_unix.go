//go:build unix

package ptyprocess

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Alive polls the child without blocking. If the child has died and
// recover is true, it attempts a bounded respawn (up to recoverMax
// caller-triggered attempts over the Controller's lifetime) and verifies
// the respawn is itself alive.
func (c *Controller) Alive(recover bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aliveLocked(recover)
}

func (c *Controller) aliveLocked(recover bool) bool {
	if c.pid != 0 {
		for {
			var ws unix.WaitStatus
			wpid, err := unix.Wait4(c.pid, &ws, unix.WNOHANG, nil)
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				// The child vanished from under us (e.g. ECHILD): treat it
				// as already gone, with unknown cause.
				c.finalizeLocked(nil, false)
				break
			}
			if wpid == 0 {
				// No status change: the child is alive.
				return true
			}
			if ws.Stopped() || ws.Continued() {
				continue
			}
			c.finalizeLocked(&ws, false)
			break
		}
	}

	// The child is now confirmed dead.
	if !recover {
		return false
	}
	if c.recoverAttempts >= c.recoverMax {
		return false
	}

	c.recoverAttempts++
	if err := c.spawn(); err != nil {
		c.log.Error("recovery spawn failed", logrus.Fields{"error": err.Error(), "attempt": c.recoverAttempts})
		return false
	}

	// recoverAttempts strictly increases on every turn, so this recursion
	// is bounded.
	return c.aliveLocked(true)
}

// Wait blocks until the child terminates by any cause: natural exit,
// signal, or loss to ECHILD (treated as already-gone, unknown cause).
func (c *Controller) Wait() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waitLocked()
}

func (c *Controller) waitLocked() error {
	for {
		if c.pid == 0 {
			return nil
		}

		var ws unix.WaitStatus
		wpid, err := unix.Wait4(c.pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECHILD {
			c.finalizeLocked(nil, false)
			return nil
		}
		if err != nil {
			return newError(IoError, "waitpid failed", c.cacheTail(), errors.Wrap(err, "wait4"))
		}
		if wpid == 0 {
			continue
		}
		if ws.Stopped() || ws.Continued() {
			continue
		}
		c.finalizeLocked(&ws, false)
		return nil
	}
}

// finalizeLocked is the idempotent teardown: given a wait status already
// observed by alive/wait, it classifies and cleans up. Given a nil status
// it performs best-effort kill+reap first (the Close/destructor path),
// unless alreadyDead is set because the caller has confirmed pid==0.
// Assumes c.mu is held. It returns nothing and discards every kill, reap
// and close error; this is the one path that is safe to call from a
// destructor.
func (c *Controller) finalizeLocked(ws *unix.WaitStatus, alreadyDead bool) {
	if ws == nil && c.pid != 0 && !alreadyDead {
		_ = unix.Kill(c.pid, unix.SIGKILL)

		var st unix.WaitStatus
		for {
			_, err := unix.Wait4(c.pid, &st, 0, nil)
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				// Unknown cause: leave exitCode/exitSignal unset.
				ws = nil
			} else {
				ws = &st
			}
			break
		}
	}

	if ws != nil {
		switch {
		case ws.Exited():
			code := ws.ExitStatus()
			c.exitCode = &code
			c.exitSignal = nil
		case ws.Signaled():
			sig := int(ws.Signal())
			c.exitSignal = &sig
			c.exitCode = nil
		}
	}

	if c.master != nil {
		_ = c.master.Close()
		c.master = nil
	}
	c.pid = 0
	c.cmd = nil
}

// Close terminates the child (best-effort kill+reap) and closes the
// master fd, unconditionally and idempotently. It never returns an error:
// cleanup is best-effort by design, safe to defer or call twice.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalizeLocked(nil, c.pid == 0)
	return nil
}

// Autopsy returns a human-readable summary of the child's last known
// state: exit code, exit signal, and the last 256 bytes of cache. If the
// child is still alive, it says so instead.
func (c *Controller) Autopsy() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pid != 0 {
		return fmt.Sprintf("false alarm, process %d is alive!", c.pid)
	}

	code, sig := "<nil>", "<nil>"
	if c.exitCode != nil {
		code = strconv.Itoa(*c.exitCode)
	}
	if c.exitSignal != nil {
		sig = strconv.Itoa(*c.exitSignal)
	}

	return fmt.Sprintf("  exit code  : %s\n  exit signal: %s\n  last output: %s\n",
		code, sig, string(c.cacheTail()))
}
