//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/radical-cybertools/saga-go-pty/ptyprocess"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Spawn a command behind a pty and attach this terminal to it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRun,
	}
	return cmd
}

// runRun puts the caller's own stdin into raw mode, spawns the requested
// command behind a pty sized to the caller's terminal, and pumps bytes in
// both directions until the child exits. SIGWINCH on the caller's terminal
// is forwarded to the child's pty, the same relationship `lxc/exec.go`'s
// `Run` keeps with its own controlling terminal.
func runRun(cmd *cobra.Command, args []string) error {
	log := loggerFor(cmd)

	stdinFd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(stdinFd)

	var rows, cols int
	if interactive {
		cols, rows, _ = term.GetSize(stdinFd)
	}

	opts := []ptyprocess.Option{
		ptyprocess.WithLogger(log),
		ptyprocess.WithRecoverMax(recoverMaxFor(cmd)),
	}
	if rows > 0 && cols > 0 {
		opts = append(opts, ptyprocess.WithSize(rows, cols))
	}

	proc, err := ptyprocess.New(args, opts...)
	if err != nil {
		return err
	}
	defer proc.Close()

	var oldState *term.State
	if interactive {
		oldState, err = term.MakeRaw(stdinFd)
		if err != nil {
			return err
		}
		defer term.Restore(stdinFd, oldState)
	}

	if interactive {
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		defer signal.Stop(winch)

		go func() {
			for range winch {
				if c, r, err := term.GetSize(stdinFd); err == nil {
					_ = proc.Resize(r, c)
				}
			}
		}()
	}

	done := make(chan struct{})
	go pumpStdin(proc, done)
	go pumpStdout(proc, done)

	<-done

	return proc.Wait()
}

// pumpStdin forwards bytes typed by the caller into the child's stdin
// until either side closes.
func pumpStdin(proc *ptyprocess.Controller, done chan struct{}) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if werr := proc.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
		if !proc.Alive(false) {
			return
		}
	}
}

// pumpStdout copies everything the child produces to the caller's stdout
// until the child dies, then signals done exactly once.
func pumpStdout(proc *ptyprocess.Controller, done chan struct{}) {
	defer close(done)
	for {
		data, err := proc.Read(0, time.Second)
		if len(data) > 0 {
			_, _ = os.Stdout.Write(data)
		}
		if err != nil {
			return
		}
	}
}
