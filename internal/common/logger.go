package common

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a thin, shared wrapper around a logging backend, the same shape
// nocc's internal/common.LoggerWrapper has: a verbosity threshold, an
// optional log file, Info/Error methods taking a loose field list. Unlike
// nocc (a long-running daemon with a rotate-on-SIGHUP logger), mymake is a
// one-shot CLI invocation, so the backend is opened once and never rotated.
//
// The backend is logrus instead of the stdlib log package nocc wraps
// directly: every call site can attach structured fields (target name,
// compile unit, worker index) that render consistently whether output goes
// to a terminal or a log file.
type Logger struct {
	impl      *logrus.Logger
	fileName  string
	verbosity int
}

// MakeLogger builds a Logger. verbosity ranges from -1 (silent) to 2 (debug).
// logFile == "" or "stderr" logs to stderr; otherwise the path is opened for append.
func MakeLogger(logFile string, verbosity int, duplicateToStderr bool) (*Logger, error) {
	if verbosity < -1 || verbosity > 2 {
		return nil, errors.New("incorrect verbosity passed")
	}

	impl := logrus.New()
	impl.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: logFile != "" && logFile != "stderr"})

	if logFile == "" || logFile == "stderr" {
		impl.SetOutput(os.Stderr)
	} else {
		out, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
		impl.SetOutput(out)
		if duplicateToStderr {
			impl.AddHook(&stderrMirrorHook{})
		}
	}

	return &Logger{impl: impl, fileName: logFile, verbosity: verbosity}, nil
}

// stderrMirrorHook duplicates error-level entries to stderr even when the
// primary backend is a file — mirrors nocc's duplicateToStderr behavior.
type stderrMirrorHook struct{}

func (*stderrMirrorHook) Levels() []logrus.Level { return []logrus.Level{logrus.ErrorLevel} }

func (*stderrMirrorHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = os.Stderr.WriteString(line)
	return err
}

// Info logs at the given verbosity level; nothing is emitted if the logger's
// threshold is lower than verbosity (0 = always shown).
func (l *Logger) Info(verbosity int, args ...interface{}) {
	if l.verbosity >= verbosity {
		l.impl.Infoln(args...)
	}
}

// InfoFields is the structured-fields counterpart of Info.
func (l *Logger) InfoFields(verbosity int, fields logrus.Fields, msg string) {
	if l.verbosity >= verbosity {
		l.impl.WithFields(fields).Infoln(msg)
	}
}

func (l *Logger) Error(args ...interface{}) {
	l.impl.Errorln(args...)
}

func (l *Logger) ErrorFields(fields logrus.Fields, msg string) {
	l.impl.WithFields(fields).Errorln(msg)
}

func (l *Logger) GetFileName() string {
	return l.fileName
}

func (l *Logger) GetFileSize() int64 {
	if l.fileName == "" {
		return 0
	}
	stat, err := os.Stat(l.fileName)
	if err != nil {
		return 0
	}
	return stat.Size()
}
