package logger

import (
	"io"
	"runtime"

	"github.com/rs/zerolog"
)

// ZeroLogger writes JSON lines through zerolog.
type ZeroLogger struct {
	writer        io.Writer
	level         Level
	defaultFields Fields
	zl            zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

type CallerHook struct{}

func (h CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if _, file, line, ok := runtime.Caller(4); ok {
		e.Str("file", file)
		e.Int("line", line)
	}
}

// NewZeroLogger returns a logger writing to writer. defaultFields are attached to every line.
func NewZeroLogger(writer io.Writer, level Level, defaultFields Fields) *ZeroLogger {
	if defaultFields == nil {
		defaultFields = Fields{}
	}
	l := &ZeroLogger{writer: writer, level: level, defaultFields: defaultFields}
	l.configure()
	return l
}

func (l *ZeroLogger) configure() {
	l.zl = zerolog.New(l.writer).
		With().
		Fields(map[string]interface{}(l.defaultFields)).
		Timestamp().
		Logger().
		Level(toZerolog(l.level))
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	case LevelOff:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithCaller attaches file and line of the call site to every line.
func (l *ZeroLogger) WithCaller() *ZeroLogger {
	l.zl = l.zl.Hook(CallerHook{})
	return l
}

func (l *ZeroLogger) Info(message string, properties map[string]interface{}) {
	l.zl.Info().Fields(properties).Msg(message)
}

func (l *ZeroLogger) Error(err error, properties map[string]interface{}) {
	if err == nil {
		return
	}
	l.zl.Error().Fields(properties).Err(err).Msg(err.Error())
}

// Fatal writes the line and exits the process.
func (l *ZeroLogger) Fatal(err error, properties map[string]interface{}) {
	l.zl.Fatal().Fields(properties).Err(err).Msg(err.Error())
}

func (l *ZeroLogger) Debug(message string, properties map[string]interface{}) {
	l.zl.Debug().Fields(properties).Msg(message)
}

func (l *ZeroLogger) SetLevel(level Level) {
	l.level = level
	l.configure()
}
