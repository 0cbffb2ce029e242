package akhttp

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging surface the client needs.
// Key/value pairs follow the message, alternating key, value.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes levelled lines through the standard library logger.
// Intended for examples and tests.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger returns a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) { l.print("DEBUG", msg, keysAndValues) }
func (l *SimpleLogger) Info(msg string, keysAndValues ...any)  { l.print("INFO", msg, keysAndValues) }
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any)  { l.print("WARN", msg, keysAndValues) }
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) { l.print("ERROR", msg, keysAndValues) }

func (l *SimpleLogger) print(level, msg string, kvs []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(kvs); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kvs[i], kvs[i+1])
	}
	if len(kvs)%2 == 1 {
		fmt.Fprintf(&b, " %v", kvs[len(kvs)-1])
	}
	l.logger.Println(b.String())
}

// ZeroLogger adapts a zerolog.Logger to the Logger interface for
// structured production logging.
type ZeroLogger struct {
	zlog zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// NewZeroLogger wraps an existing zerolog.Logger.
func NewZeroLogger(zl zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{zlog: zl}
}

// NewDefaultZeroLogger builds a timestamped JSON logger on stdout at the
// given level. Unknown levels fall back to info.
func NewDefaultZeroLogger(level string) *ZeroLogger {
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zLevel)
	return &ZeroLogger{zlog: zl}
}

func (l *ZeroLogger) Debug(msg string, keysAndValues ...any) {
	l.emit(l.zlog.Debug(), msg, keysAndValues)
}

func (l *ZeroLogger) Info(msg string, keysAndValues ...any) {
	l.emit(l.zlog.Info(), msg, keysAndValues)
}

func (l *ZeroLogger) Warn(msg string, keysAndValues ...any) {
	l.emit(l.zlog.Warn(), msg, keysAndValues)
}

func (l *ZeroLogger) Error(msg string, keysAndValues ...any) {
	l.emit(l.zlog.Error(), msg, keysAndValues)
}

func (l *ZeroLogger) emit(ev *zerolog.Event, msg string, kvs []any) {
	for i := 0; i+1 < len(kvs); i += 2 {
		ev = ev.Interface(fmt.Sprintf("%v", kvs[i]), kvs[i+1])
	}
	ev.Msg(msg)
}
