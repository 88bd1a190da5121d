package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Interface describes the minimal logging interface the analyzer relies on.
type Interface interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	// With returns a logger that adds key=value to every line.
	With(key string, value interface{}) Interface
}

var (
	globalLogger Interface
	globalLevel  = zerolog.InfoLevel
	once         sync.Once
)

// SetLevel parses level ("debug", "info", "warn", ...) for the global logger.
// It only has an effect before the first call to Logger.
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	globalLevel = lvl
	return nil
}

// Logger returns a lazily initialized zerolog-backed logger implementing Interface.
func Logger() Interface {
	once.Do(func() {
		globalLogger = New(os.Stdout, globalLevel)
	})
	return globalLogger
}

// New builds a logger writing JSON lines to w.
func New(w io.Writer, level zerolog.Level) Interface {
	base := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zerologAdapter{log: base}
}

// Nop discards everything.
func Nop() Interface {
	return &zerologAdapter{log: zerolog.Nop()}
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (l *zerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *zerologAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologAdapter) With(key string, value interface{}) Interface {
	return &zerologAdapter{log: l.log.With().Interface(key, value).Logger()}
}
