package ptyprocess

import "github.com/sirupsen/logrus"

// Logger is the logging contract Controller consumes. It matches the
// SAGA logger's debug/info/warn/error surface: a sink with four leveled
// calls, each taking a message and a bag of structured fields.
type Logger interface {
	Debug(msg string, fields logrus.Fields)
	Info(msg string, fields logrus.Fields)
	Warn(msg string, fields logrus.Fields)
	Error(msg string, fields logrus.Fields)
}

// logrusLogger is the default Logger, a thin wrapper around a named
// *logrus.Entry.
type logrusLogger struct {
	entry *logrus.Entry
}

func newDefaultLogger() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{entry: l.WithField("component", "PTYProcess")}
}

func (l *logrusLogger) Debug(msg string, fields logrus.Fields) { l.entry.WithFields(fields).Debug(msg) }
func (l *logrusLogger) Info(msg string, fields logrus.Fields)  { l.entry.WithFields(fields).Info(msg) }
func (l *logrusLogger) Warn(msg string, fields logrus.Fields)  { l.entry.WithFields(fields).Warn(msg) }
func (l *logrusLogger) Error(msg string, fields logrus.Fields) { l.entry.WithFields(fields).Error(msg) }

// snippet renders data for a debug log line, truncating to a head30…tail30
// form once it exceeds debugMax bytes so interactive sessions with large
// bursts of output don't flood the log.
func snippet(data []byte) string {
	s := string(data)
	if len(s) <= debugMax {
		return s
	}
	return s[:30] + " ... " + s[len(s)-30:]
}
