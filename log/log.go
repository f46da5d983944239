package log

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/on-the-ground/dispatch_ive_go/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is the value of the log.level config key.
type LogLevel string

const (
	LogDebug LogLevel = "debug" // cache creation and every resolved miss
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn" // overloads left outside a full selection cache
	LogError LogLevel = "error"
)

func (l LogLevel) zapLevel() (zapcore.Level, error) {
	switch l {
	case LogDebug:
		return zap.DebugLevel, nil
	case LogInfo, "":
		return zap.InfoLevel, nil
	case LogWarn:
		return zap.WarnLevel, nil
	case LogError:
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("%w: %s %q", config.ErrInvalid, config.KeyLogLevel, string(l))
}

// New builds a logger from cfg. The auto encoding picks the development
// console encoder when stderr is a terminal and JSON otherwise.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := LogLevel(cfg.Level).zapLevel()
	if err != nil {
		return nil, err
	}

	encoding := cfg.Encoding
	if encoding == "auto" || encoding == "" {
		encoding = "json"
		if isTerminal(os.Stderr) {
			encoding = "console"
		}
	}

	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	switch encoding {
	case "console":
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "json":
		encoderCfg = zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("%w: %s %q", config.ErrInvalid, config.KeyLogEncoding, cfg.Encoding)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
