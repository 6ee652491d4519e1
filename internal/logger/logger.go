package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger is the logging surface shared by every service.
type AppLogger interface {
	Info(message string, args ...zap.Field)
	Warn(message string, args ...zap.Field)
	Error(message string, err error, args ...zap.Field)
	Fatal(message string, err error, args ...zap.Field)
	With(args ...zap.Field) AppLogger
}

type AppLog struct {
	log *zap.Logger
}

// NewAppLogger builds a production json logger. hash, when set, is attached to every entry.
func NewAppLogger(hash string) (AppLogger, error) {
	conf := zap.NewProductionConfig()
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := conf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	if hash != "" {
		z = z.With(zap.String("hash", hash))
	}
	return &AppLog{log: z}, nil
}

// NewNop returns a logger that drops everything. Used in tests.
func NewNop() AppLogger {
	return &AppLog{log: zap.NewNop()}
}

func (l *AppLog) Info(message string, args ...zap.Field) {
	l.log.Info(message, args...)
}

func (l *AppLog) Warn(message string, args ...zap.Field) {
	l.log.Warn(message, args...)
}

func (l *AppLog) Error(message string, err error, args ...zap.Field) {
	l.log.Error(message, append(args, zap.Error(err))...)
}

func (l *AppLog) Fatal(message string, err error, args ...zap.Field) {
	l.log.Fatal(message, append(args, zap.Error(err))...)
}

func (l *AppLog) With(args ...zap.Field) AppLogger {
	return &AppLog{log: l.log.With(args...)}
}
