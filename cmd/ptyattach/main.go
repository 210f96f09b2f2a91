// Command ptyattach is a thin demo driver for the ptyprocess package: it
// spawns a command behind a pty and either attaches the caller's own
// terminal to it directly, drives it through a scripted sequence of
// expected prompts, or serves the same session over a websocket, mirroring
// the split between `lxc exec`'s local attach and `lxd-agent`'s
// exec-over-websocket handler. It is not the session layer the library
// leaves as an external collaborator -- no auth, no persistence, no SSH.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/radical-cybertools/saga-go-pty/ptyprocess"
)

func main() {
	root := &cobra.Command{
		Use:          "ptyattach",
		Short:        "Attach to a command running behind a pseudo-terminal",
		SilenceUsage: true,
	}

	root.PersistentFlags().Int("recover-max", 3, "maximum number of automatic respawns")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newExpectCommand())
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// entryLogger adapts a *logrus.Entry to ptyprocess.Logger, the same shape
// as the package's own default but with level and destination under the
// CLI's control.
type entryLogger struct {
	entry *logrus.Entry
}

func (l entryLogger) Debug(msg string, fields logrus.Fields) { l.entry.WithFields(fields).Debug(msg) }
func (l entryLogger) Info(msg string, fields logrus.Fields)  { l.entry.WithFields(fields).Info(msg) }
func (l entryLogger) Warn(msg string, fields logrus.Fields)  { l.entry.WithFields(fields).Warn(msg) }
func (l entryLogger) Error(msg string, fields logrus.Fields) { l.entry.WithFields(fields).Error(msg) }

func loggerFor(cmd *cobra.Command) ptyprocess.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return entryLogger{entry: log.WithField("component", "ptyattach")}
}

func recoverMaxFor(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("recover-max")
	return n
}
