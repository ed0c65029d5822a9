// Package logger builds the zap loggers shared by the editor packages.
// Every logger discards its output until Init runs.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Faultbox/visualflats/internal/config"
)

// Component names the subsystem a logger belongs to.
type Component string

// Components.
const (
	CLI     Component = "flattool"
	MapData Component = "mapdata"
	Texture Component = "texture"
	Surface Component = "surface"
	Visual  Component = "visual"
	Undo    Component = "undo"
)

// Log file rotation.
const (
	maxSizeMB  = 20
	maxBackups = 5
	maxAgeDays = 14
)

var root = zap.NewNop()

// Init replaces the root logger according to cfg. Console output goes to
// stderr, leaving stdout to command output. The log file is rotated and
// written as JSON. Loggers obtained before Init keep discarding.
func Init(cfg config.LoggingConfig) error {
	l, err := build(cfg, os.Stderr)
	if err != nil {
		return err
	}
	root = l
	return nil
}

// build creates a logger writing to console and to cfg.LogFile. A nil
// console disables console output.
func build(cfg config.LoggingConfig, console io.Writer) (*zap.Logger, error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if console != nil {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "component",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(console), lvl))
	}

	if cfg.LogFile != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
		enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "component",
			MessageKey:     "msg",
			CallerKey:      "caller",
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// parseLevel accepts the zap level names plus "warning". An empty level is
// info.
func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}

// For returns the logger of a component.
func For(c Component) *zap.Logger {
	return root.Named(string(c))
}

// Sync flushes buffered entries.
func Sync() {
	_ = root.Sync()
}

// Sector tags an entry with a map sector index.
func Sector(index int) zap.Field {
	return zap.Int("sector", index)
}

// Kind tags an entry with a surface kind.
func Kind(k fmt.Stringer) zap.Field {
	return zap.Stringer("kind", k)
}

// Flat tags an entry with a flat name.
func Flat(name string) zap.Field {
	return zap.String("flat", name)
}

// Ticket tags an entry with an undo transaction.
func Ticket[T ~string](t T) zap.Field {
	return zap.String("ticket", string(t))
}
