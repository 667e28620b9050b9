// Package logger builds the zap loggers used by stcall.
//
// Diagnostics (multi-species strains, ambiguous calls) are logged at WARN so
// they show up without -v. Results never go through the logger.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for the repeatable -v flag.
const (
	VerbosityUser  = 0 // warnings and errors
	VerbosityInfo  = 1 // + progress and counts
	VerbosityDebug = 2 // + per-strain lookups
)

// Options selects encoder and level.
type Options struct {
	JSON      bool
	Verbosity int
	Quiet     bool // only errors; wins over Verbosity
}

// VerbosityToLevel maps -v counts to zap levels.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns a sugared logger writing to w.
func New(w io.Writer, opt Options) *zap.SugaredLogger {
	level := VerbosityToLevel(opt.Verbosity)
	if opt.Quiet {
		level = zapcore.ErrorLevel
	}

	var enc zapcore.Encoder
	if opt.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = newConsoleEncoder()
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// newConsoleEncoder is a calm console format: no timestamps, no caller,
// upper-case level ("WARN  ambiguous call  strain=S1 ...").
func newConsoleEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "  ",
	}
	return zapcore.NewConsoleEncoder(cfg)
}
