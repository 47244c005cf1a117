package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a service-scoped structured logger
type Logger struct {
	log zerolog.Logger
}

// New creates a logger tagged with the service name. Writes to stdout when no
// writer is given.
func New(service string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	l := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{log: l}
}

// With returns a logger carrying an extra field on every entry
func (l *Logger) With(key, value string) *Logger {
	return &Logger{log: l.log.With().Str(key, value).Logger()}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	emit(l.log.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	emit(l.log.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	emit(l.log.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	emit(l.log.Error().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	return &Logger{log: zerolog.Nop()}
}
