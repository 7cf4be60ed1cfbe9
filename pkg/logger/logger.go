package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newLogger(os.Stdout, "development")

func newLogger(out io.Writer, env string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	if strings.EqualFold(env, "production") {
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}

// Init configures the package logger for the given environment.
func Init(env string) {
	log = newLogger(os.Stdout, env)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(out io.Writer) {
	log.SetOutput(out)
}

// Logger exposes the underlying logrus logger for integrations that need one.
func Logger() *logrus.Logger {
	return log
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}

func Fatal(msg string, args ...any) {
	log.WithFields(fields(args)).Fatal(msg)
}

// fields turns "key", value pairs into logrus fields. A lone error or any
// other unpaired value is logged under "error" or "argN".
func fields(args []any) logrus.Fields {
	f := logrus.Fields{}

	for i := 0; i < len(args); i++ {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			f[key] = args[i+1]
			i++
			continue
		}

		if err, ok := args[i].(error); ok {
			f[logrus.ErrorKey] = err.Error()
			continue
		}

		f[fmt.Sprintf("arg%d", i)] = args[i]
	}

	return f
}
