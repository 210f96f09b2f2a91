//go:build unix

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/radical-cybertools/saga-go-pty/ptyprocess"
)

func newExpectCommand() *cobra.Command {
	var scriptPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "expect -- <command> [args...]",
		Short: "Drive a command behind a pty through a scripted expect/send sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpect(cmd, scriptPath, timeout, args)
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "path to an expect/send script (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-step timeout passed to Find")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

// expectStep is one line of a script: either waiting for a regex prompt or
// pushing bytes into the child's stdin.
type expectStep struct {
	kind string // "expect" or "send"
	text string
}

// parseExpectScript reads alternating "expect: <regex>" / "send: <text>"
// lines, blank lines and lines starting with "#" ignored. "send" text
// interprets every literal "\n" as a newline, so scripts can spell
// out "send: yes\n" without an actual line break in the file.
func parseExpectScript(path string) ([]expectStep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var steps []expectStep
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kind, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed script line %q: expected \"expect: <regex>\" or \"send: <text>\"", line)
		}
		kind = strings.ToLower(strings.TrimSpace(kind))
		rest = strings.TrimSpace(rest)

		switch kind {
		case "expect":
			steps = append(steps, expectStep{kind: kind, text: rest})
		case "send":
			steps = append(steps, expectStep{kind: kind, text: strings.ReplaceAll(rest, `\n`, "\n")})
		default:
			return nil, fmt.Errorf("malformed script line %q: unknown directive %q", line, kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// runExpect spawns the requested command behind a pty and plays the
// script's expect/send steps in order, failing on the first expect that
// times out or the first write that errors. It is a thin driver around
// Controller.FindString/Write, wired to an arbitrary caller-supplied
// script instead of a fixed test case.
func runExpect(cmd *cobra.Command, scriptPath string, timeout time.Duration, args []string) error {
	log := loggerFor(cmd)

	steps, err := parseExpectScript(scriptPath)
	if err != nil {
		return err
	}

	proc, err := ptyprocess.New(args,
		ptyprocess.WithLogger(log),
		ptyprocess.WithRecoverMax(recoverMaxFor(cmd)),
	)
	if err != nil {
		return err
	}
	defer proc.Close()

	for _, step := range steps {
		switch step.kind {
		case "expect":
			idx, matched, err := proc.FindString([]string{step.text}, timeout)
			if err != nil {
				return fmt.Errorf("expect %q: %w", step.text, err)
			}
			if idx == ptyprocess.NoMatch {
				return fmt.Errorf("expect %q: timed out\n%s", step.text, proc.Autopsy())
			}
			fmt.Fprintf(os.Stdout, "%s", matched)
		case "send":
			if err := proc.Write([]byte(step.text)); err != nil {
				return fmt.Errorf("send %q: %w", step.text, err)
			}
		}
	}

	return proc.Wait()
}
