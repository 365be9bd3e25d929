package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Verbose controls whether debug messages are being printed.
var Verbose bool

// IndentationLevel controls the amount of indentation of log messages.
var IndentationLevel = 0

var (
	mu           sync.Mutex
	errorOccured = false
	logger       = newLogger(os.Stderr)
)

const kindField = "kind"
const kindSuccess = "success"

// formatter prints the indented, colored lines of the command line tool.
// The message is expected to carry its own line break.
type formatter struct{}

func (formatter) Format(entry *logrus.Entry) ([]byte, error) {
	indent := ""
	if level, ok := entry.Data["indent"].(int); ok {
		indent = strings.Repeat("  ", level)
	}

	prefix := ""
	switch entry.Level {
	case logrus.DebugLevel:
		prefix = "\033[36mDebug: \033[0m"
	case logrus.WarnLevel:
		prefix = "\033[33mWarning: \033[0m"
	case logrus.ErrorLevel, logrus.FatalLevel:
		prefix = "\033[31mError: \033[0m"
	case logrus.InfoLevel:
		if entry.Data[kindField] == kindSuccess {
			prefix = "\033[32mSuccess: \033[0m"
		}
	}
	return []byte(indent + prefix + entry.Message), nil
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = out
	l.Formatter = formatter{}
	l.Level = logrus.DebugLevel
	return l
}

// SetOutput redirects all messages to out.
func SetOutput(out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.Out = out
}

// ErrorOccured reports whether any errors have occured.
func ErrorOccured() bool {
	mu.Lock()
	defer mu.Unlock()
	return errorOccured
}

func entry() *logrus.Entry {
	return logger.WithField("indent", IndentationLevel)
}

// Log prints an indented and formatted message to os.Stderr.
func Log(format string, a ...interface{}) {
	entry().Infof(format, a...)
}

// Debug prints an indented and formatted debug message to os.Stderr if verbose output is selected.
func Debug(format string, a ...interface{}) {
	if Verbose {
		entry().Debugf(format, a...)
	}
}

// Success prints an indented and formatted success message to os.Stderr.
func Success(format string, a ...interface{}) {
	entry().WithField(kindField, kindSuccess).Infof(format, a...)
}

// Warning prints an indented and formatted warning to os.Stderr.
func Warning(format string, a ...interface{}) {
	entry().Warnf(format, a...)
}

// Error prints an indented and formatted error message to os.Stderr.
func Error(format string, a ...interface{}) {
	mu.Lock()
	errorOccured = true
	mu.Unlock()
	entry().Errorf(format, a...)
}

// Fatal prints an indented and formatted error message to os.Stderr and terminates the program.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	fmt.Fprintf(logger.Out, "\033[31mA fatal error occured. Exiting...\033[0m\n")
	os.Exit(1)
}
