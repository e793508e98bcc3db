package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger provides functionality for logging.
type Logger struct {
	*zerolog.Logger
}

func newFileWriter(filename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 3,
		Compress:   true,
	}
}

var (
	logger Logger
	once   sync.Once
)

// Options represents options for logger.
type Options struct {
	LogLevel        string
	LogFile         string
	PrettyLogOutput bool
}

// New returns the process-wide logger. Only the options of the first call are applied.
func New(opts Options) *Logger {
	once.Do(func() {
		// By default create console writer
		writers := []io.Writer{os.Stdout}

		if opts.PrettyLogOutput {
			writers[0] = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Stamp}
		}

		if opts.LogFile != "" {
			writers = append(writers, newFileWriter(opts.LogFile))
		}

		if opts.LogLevel != "" {
			level, err := zerolog.ParseLevel(opts.LogLevel)
			if err != nil {
				panic(err)
			}

			zerolog.SetGlobalLevel(level)
		}

		multiWriters := io.MultiWriter(writers...)

		zeroLogger := zerolog.New(multiWriters).With().Caller().Timestamp().Logger()

		logger = Logger{&zeroLogger}
	})

	return &logger
}

// Nop returns a logger that discards everything, useful in tests.
func Nop() *Logger {
	zeroLogger := zerolog.Nop()
	return &Logger{&zeroLogger}
}

// Named returns a child logger tagged with the component name.
func (l *Logger) Named(name string) *Logger {
	child := l.With().Str("name", name).Logger()
	return &Logger{&child}
}
