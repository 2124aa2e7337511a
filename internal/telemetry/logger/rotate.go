package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig configures a size-rotated log file.
type RotationConfig struct {
	// File is the log file path.
	File string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. 0 keeps all.
	MaxBackups int
	// MaxAgeDays removes rotated files older than this. 0 keeps all.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

// NewRotatingFile returns a writer for Config.Output that rotates
// cfg.File. The caller closes it on shutdown.
func NewRotatingFile(cfg RotationConfig) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}
