package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options: настройки логгера из конфига.
type Options struct {
	Level string // debug | info | warn | error
	Mode  string // development | production
	File  string // если задан, дополнительно пишем JSON в файл с ротацией
}

// New собирает zap-логгер. Консоль всегда, файл: только если указан.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	var zapConfig zap.Config
	if opts.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if opts.File == "" {
		return zapConfig.Build()
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	var console zapcore.Encoder
	if opts.Mode == "production" {
		console = zapcore.NewJSONEncoder(zapConfig.EncoderConfig)
	} else {
		console = zapcore.NewConsoleEncoder(zapConfig.EncoderConfig)
	}
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotating), zapConfig.Level),
		zapcore.NewCore(console, zapcore.AddSync(os.Stdout), zapConfig.Level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
