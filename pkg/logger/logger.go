// Package logger builds the application's zerolog logger. The server
// logs to stdout by default; a file path or an arbitrary writer can be
// selected instead, which tests use to capture output.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0664

// Build accumulates logger options before Make constructs the logger.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Log bundles the constructed logger with the file it writes to, if
// any, so callers can close it on shutdown.
type Log struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

func (build *Build) FromPath(path string) *Build {
	build.path = path
	return build
}

func (build *Build) FromWriter(w io.Writer) *Build {
	build.writer = w
	return build
}

func (build *Build) WithLevel(level zerolog.Level) *Build {
	build.level = level
	return build
}

func (build *Build) Make() (*Log, error) {
	log := new(Log)
	writer := build.writer
	if writer == nil {
		writer = os.Stdout
	}
	if build.path != "" {
		f, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		log.LogFile = f
		writer = zerolog.SyncWriter(f)
	}
	log.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return log, nil
}

// Close closes the log file when one was opened.
func (l *Log) Close() error {
	if l.LogFile != nil {
		return l.LogFile.Close()
	}
	return nil
}
