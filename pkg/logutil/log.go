// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/matrixorigin/symtable/pkg/common/moerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _globalLogger atomic.Value
var _globalLogConfig atomic.Value

func init() {
	SetupMOLogger(&LogConfig{
		Level:  zapcore.InfoLevel.String(),
		Format: "console",
	})
}

// LogConfig log config
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
	// DisableStore keeps the logger on the console even if Filename is set.
	DisableStore bool `toml:"disable-store"`
	// StacktraceLevel, default is "fatal"
	StacktraceLevel string `toml:"stacktrace-level"`
}

// SetupMOLogger builds the global logger from conf.
func SetupMOLogger(conf *LogConfig) {
	logger := initMOLogger(conf)
	replaceGlobalLogger(logger)
	_globalLogConfig.Store(*conf)
	logger.Debug("MO logger init", zap.String("level", conf.Level), zap.String("format", conf.Format))
}

func initMOLogger(cfg *LogConfig) *zap.Logger {
	return GetLoggerWithOptions(cfg.getLevel(), cfg.getEncoder(), cfg.getSyncer(), cfg.getOptions()...)
}

// GetLoggerWithOptions builds a zap logger writing through one sink.
func GetLoggerWithOptions(level zapcore.LevelEnabler, encoder zapcore.Encoder, syncer zapcore.WriteSyncer, options ...zap.Option) *zap.Logger {
	if syncer == nil {
		syncer = getConsoleSyncer()
	}
	return zap.New(zapcore.NewCore(encoder, syncer, level), options...)
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	err := level.UnmarshalText([]byte(cfg.Level))
	if err != nil {
		panic(err)
	}
	return level
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	return getLoggerEncoder(cfg.Format)
}

func (cfg *LogConfig) getSyncer() zapcore.WriteSyncer {
	if cfg.DisableStore || cfg.Filename == "" {
		return getConsoleSyncer()
	}
	if stat, err := os.Stat(cfg.Filename); err == nil {
		if stat.IsDir() {
			panic("log file can't be a directory")
		}
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 512
	}
	// add lumberjack logger
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   false,
	})
}

func (cfg *LogConfig) getOptions() []zap.Option {
	var stackLevel zapcore.Level
	if err := stackLevel.UnmarshalText([]byte(cfg.StacktraceLevel)); err != nil || cfg.StacktraceLevel == "" {
		stackLevel = zapcore.FatalLevel
	}
	return []zap.Option{zap.AddStacktrace(stackLevel), zap.AddCaller()}
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "name",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime: zapcore.TimeEncoder(func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006/01/02 15:04:05.000000 -0700"))
		}),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	switch format {
	case "json", "":
		return zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	default:
		panic(moerr.NewInternalError("unsupported log format: %s", format))
	}
}

func getConsoleSyncer() zapcore.WriteSyncer {
	syncer, _, err := zap.Open("stderr")
	if err != nil {
		panic(err)
	}
	return syncer
}

func replaceGlobalLogger(logger *zap.Logger) {
	_globalLogger.Store(logger)
}

func getGlobalLogConfig() LogConfig {
	return _globalLogConfig.Load().(LogConfig)
}
