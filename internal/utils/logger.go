package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions 日志选项
type LoggerOptions struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	Path   string // 为空时输出到stderr
}

// NewLogger 根据选项创建zap日志器
func NewLogger(opts LoggerOptions) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, NewConfigurationError("log.level", fmt.Errorf("unknown level %q", opts.Level))
		}
	}

	encoding := "console"
	switch strings.ToLower(opts.Format) {
	case "", "console":
	case "json":
		encoding = "json"
	default:
		return nil, NewConfigurationError("log.format", fmt.Errorf("unknown format %q", opts.Format))
	}

	output := "stderr"
	if opts.Path != "" {
		output = opts.Path
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	cfg := zap.Config{
		Level:            level,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, NewSinkError(output, err)
	}
	return logger, nil
}
