package ptyprocess

import (
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// chunkSize is the most the read engine pulls from the master fd in a
	// single poll cycle.
	chunkSize = 1024
	// pollDelay bounds every blocking select the engine performs, so
	// in-flight operations stay responsive to lock contention and to a
	// concurrent Close from another goroutine.
	pollDelay = 10 * time.Millisecond
	// debugMax is the snippet threshold past which read/write logging
	// truncates to head30…tail30.
	debugMax = 600
	// autopsyTail is how much of the cache gets embedded in error messages
	// and Autopsy() as forensic context.
	autopsyTail = 256
	// defaultRecoverMax is the default ceiling on caller-triggered respawns.
	defaultRecoverMax = 3
	// NoMatch is the sentinel index Find/FindString return when no pattern
	// matched before the timeout.
	NoMatch = -1
)

// Controller spawns a child process attached to a pseudo-terminal and
// serializes every operation on it under a single lock: spawn, read,
// write, find, alive, wait, autopsy, close. At most one child is alive per
// Controller at any instant.
type Controller struct {
	mu sync.Mutex

	command []string
	log     Logger

	master *os.File
	cmd    *exec.Cmd
	pid    int

	// cache holds bytes already pulled from master but not yet consumed by
	// the caller. It never contains a carriage return: those are stripped
	// on ingest.
	cache []byte

	exitCode   *int
	exitSignal *int

	recoverMax      int
	recoverAttempts int

	rows, cols int
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithLogger overrides the default logrus-backed Logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRecoverMax overrides the default ceiling (3) on caller-triggered
// respawns permitted over the Controller's lifetime.
func WithRecoverMax(n int) Option {
	return func(c *Controller) { c.recoverMax = n }
}

// WithSize sets the initial terminal geometry the child's pty is opened
// with, in rows and columns. Zero means leave the kernel default.
func WithSize(rows, cols int) Option {
	return func(c *Controller) { c.rows, c.cols = rows, cols }
}

// New validates command (a string split with POSIX shell-quoting rules, or
// a non-empty []string), spawns it attached to a fresh pty, and returns a
// Controller ready to drive it. The child inherits the parent's full
// environment.
func New(command interface{}, opts ...Option) (*Controller, error) {
	argv, err := ParseCommand(command)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		command:    argv,
		log:        newDefaultLogger(),
		recoverMax: defaultRecoverMax,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log.Debug("PTYProcess init", logrus.Fields{"command": strings.Join(argv, " ")})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.spawn(); err != nil {
		return nil, err
	}
	return c, nil
}

// Command returns a copy of the argv the controller was constructed with.
func (c *Controller) Command() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.command...)
}

// ExitCode returns the child's exit status and true if it terminated
// normally. It returns (0, false) if the child is alive, was killed by a
// signal instead, or was lost to ECHILD before either status was known.
func (c *Controller) ExitCode() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exitCode == nil {
		return 0, false
	}
	return *c.exitCode, true
}

// ExitSignal returns the signal number that killed the child and true if
// it died that way. It returns (0, false) if the child is alive, exited
// normally instead, or was lost to ECHILD.
func (c *Controller) ExitSignal() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exitSignal == nil {
		return 0, false
	}
	return *c.exitSignal, true
}

// RecoverAttempts returns the number of respawns performed so far via
// Alive(recover=true). It is monotone non-decreasing and never exceeds the
// configured recoverMax at the moment of a successful respawn.
func (c *Controller) RecoverAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recoverAttempts
}

func (c *Controller) logRead(chunk []byte) {
	log := string(chunk)
	log = strings.ReplaceAll(log, "\n", "\\n")
	c.log.Debug("read", logrus.Fields{"fd": int(c.master.Fd()), "len": len(chunk), "data": snippet([]byte(log))})
}

func (c *Controller) logWrite(data []byte) {
	log := strings.ReplaceAll(string(data), "\n", "\\n")
	c.log.Debug("write", logrus.Fields{"fd": int(c.master.Fd()), "len": len(data), "data": snippet([]byte(log))})
}
