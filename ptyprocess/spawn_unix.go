//go:build unix

package ptyprocess

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/kr/pty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// spawn opens a pty pair, forks, and in the child replaces the process
// image with command[0]/command[1:], inheriting the parent's environment.
// In the parent it retains the master fd, disables local echo, and records
// the child pid. Assumes c.mu is held.
func (c *Controller) spawn() error {
	master, slave, err := pty.Open()
	if err != nil {
		return newError(SpawnFailed, "could not open pty", nil, errors.Wrap(err, "pty.Open"))
	}

	if c.rows > 0 || c.cols > 0 {
		if err := pty.Setsize(master, &pty.Winsize{Rows: uint16(c.rows), Cols: uint16(c.cols)}); err != nil {
			c.log.Warn("could not set initial pty size", logrus.Fields{"error": err.Error()})
		}
	}

	cmd := exec.Command(c.command[0], c.command[1:]...)
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.Env = os.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	c.log.Info("running", logrus.Fields{"command": strings.Join(c.command, " ")})

	if err := cmd.Start(); err != nil {
		_ = master.Close()
		_ = slave.Close()
		return newError(SpawnFailed,
			fmt.Sprintf("could not run (%s)", strings.Join(c.command, " ")),
			nil, errors.Wrap(err, "cmd.Start"))
	}
	_ = slave.Close()

	if err := disableEcho(master); err != nil {
		c.log.Warn("could not disable pty echo", logrus.Fields{"error": err.Error()})
	}

	c.master = master
	c.cmd = cmd
	c.pid = cmd.Process.Pid
	c.exitCode = nil
	c.exitSignal = nil

	return nil
}

// disableEcho clears the ECHO bit of the pty's line discipline so that
// bytes the controller writes are not reflected back into the read
// stream. On Linux, ioctls against the master fd reach the same termios
// struct the slave side uses.
func disableEcho(master *os.File) error {
	term, err := unix.IoctlGetTermios(int(master.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}
	term.Lflag &^= unix.ECHO
	return unix.IoctlSetTermios(int(master.Fd()), unix.TCSETS, term)
}

// Resize changes the child's terminal geometry, for callers tracking a
// SIGWINCH on their own controlling terminal.
func (c *Controller) Resize(rows, cols int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.master == nil {
		return newError(IoError, "cannot resize a dead process", c.cacheTail(), nil)
	}

	c.rows, c.cols = rows, cols
	if err := pty.Setsize(c.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return newError(IoError, "could not resize pty", c.cacheTail(), err)
	}
	return nil
}
