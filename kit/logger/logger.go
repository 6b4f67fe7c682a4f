package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger struct {
	*zap.Logger
}

type loggerConfig struct {
	noStdout      bool
	isRotate      bool
	rotateMaxSize int
	rotateBackups int
	rotateMaxAge  int
}

type Option func(*loggerConfig)

// WithRotateLog rotates the log file, maxSize is in megabytes and maxAge in days.
func WithRotateLog(maxSize, maxBackups, maxAge int) Option {
	return func(lc *loggerConfig) {
		lc.isRotate = true
		lc.rotateMaxSize = maxSize
		lc.rotateBackups = maxBackups
		lc.rotateMaxAge = maxAge
	}
}

func NoStdout(lc *loggerConfig) {
	lc.noStdout = true
}

// NewLogger writes json lines to path and, unless NoStdout, to stdout. An empty path only logs to stdout.
func NewLogger(path string, level Level, options ...Option) (*Logger, error) {
	var config loggerConfig
	for _, option := range options {
		option(&config)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	var writeSyncers []zapcore.WriteSyncer
	if !config.noStdout {
		writeSyncers = append(writeSyncers, zapcore.AddSync(os.Stdout))
	}
	if path != "" {
		if config.isRotate {
			writeSyncers = append(writeSyncers, zapcore.AddSync(&lumberjack.Logger{
				Filename:   path,
				MaxSize:    config.rotateMaxSize,
				MaxBackups: config.rotateBackups,
				MaxAge:     config.rotateMaxAge,
			}))
		} else {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return nil, errors.Wrap(err, "open log file failed")
			}
			writeSyncers = append(writeSyncers, zapcore.AddSync(file))
		}
	}
	if len(writeSyncers) == 0 {
		return NewNopLogger(), nil
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writeSyncers...), zap.NewAtomicLevelAt(level))
	return &Logger{zap.New(core, zap.AddCaller())}, nil
}

func NewNopLogger() *Logger {
	return &Logger{zap.NewNop()}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l.Logger.With(fields...)}
}
