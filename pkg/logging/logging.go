package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger takes a logging config and returns a new zap logger that writes
// to the log file pointed to by the config and, unless disabled, to stdout.
func NewLogger(config *Config) (*zap.Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	encoder, level, err := constructEncoderAndLevel(config)
	if err != nil {
		return nil, fmt.Errorf("constructing log encoder and level: %w", err)
	}

	var core zapcore.Core
	if config.Filename != "" {
		core = zapcore.NewCore(encoder, zapcore.AddSync(&config.Logger), level)
		if !config.DisableConsoleOutput {
			console := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
			core = zapcore.NewTee(core, console)
		}
	} else {
		core = zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	}

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

func constructEncoderAndLevel(config *Config) (zapcore.Encoder, zapcore.Level, error) {
	level, err := config.toZapCoreLevel()
	if err != nil {
		return nil, level, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if config.Debug {
		return zapcore.NewConsoleEncoder(encoderConfig), level, nil
	}
	return zapcore.NewJSONEncoder(encoderConfig), level, nil
}
