// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config holds the configuration for the logger.
type Config struct {
	Level  string
	Output string // "stdout", "stderr", or a file path
	Pretty bool   // console writer for development
}

// Init initializes the global logger. Safe to call more than once; only the
// first call takes effect.
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var output io.Writer
		switch cfg.Output {
		case "", "stdout":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				initErr = err
				output = os.Stdout
				break
			}
			output = file
		}

		if cfg.Pretty {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: "2006-01-02 15:04:05"}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
		zerolog.DefaultContextLogger = &logger
	})
	return initErr
}

// Get returns the logger instance.
func Get() *zerolog.Logger {
	return &logger
}
