// Package logging configures the process-wide structured logger. Log
// lines go to a rotating file under the user cache directory so normal
// runs keep the terminal clean; --debug tees them to stderr as well.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FilePath returns the debug log location.
func FilePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gigabroom", "debug.log")
	}
	return filepath.Join(os.TempDir(), "gigabroom-debug.log")
}

// Setup installs the default logger and returns it. With debug set the
// level drops to Debug and output is mirrored to stderr.
func Setup(debug bool) *slog.Logger {
	var out io.Writer = &lumberjack.Logger{
		Filename:   FilePath(),
		MaxSize:    5, // megabytes per file
		MaxBackups: 2,
		MaxAge:     14, // days
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
		out = io.MultiWriter(out, os.Stderr)
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log
}
