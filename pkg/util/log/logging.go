/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package log

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

import (
	"github.com/natefinch/lumberjack"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the level of logging.
type LogLevel int8

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel = LogLevel(zapcore.DebugLevel)
	// InfoLevel is the default logging priority.
	InfoLevel = LogLevel(zapcore.InfoLevel)
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel = LogLevel(zapcore.WarnLevel)
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel = LogLevel(zapcore.ErrorLevel)
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel = LogLevel(zapcore.FatalLevel)

	_minLevel = DebugLevel
	_maxLevel = FatalLevel
)

type LoggingConfig struct {
	LogName       string `yaml:"log_name" json:"log_name"`
	LogPath       string `yaml:"log_path" json:"log_path"`
	LogLevel      int    `yaml:"log_level" json:"log_level"`
	LogMaxSize    int    `yaml:"log_max_size" json:"log_max_size"`
	LogMaxBackups int    `yaml:"log_max_backups" json:"log_max_backups"`
	LogMaxAge     int    `yaml:"log_max_age" json:"log_max_age"`
	LogCompress   bool   `yaml:"log_compress" json:"log_compress"`
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	if l == nil {
		return errors.New("can't unmarshal a nil *LogLevel")
	}
	if !l.unmarshalText(text) && !l.unmarshalText(bytes.ToLower(text)) {
		return fmt.Errorf("unrecognized level: %q", text)
	}
	return nil
}

func (l *LogLevel) unmarshalText(text []byte) bool {
	switch string(text) {
	case "debug", "DEBUG":
		*l = DebugLevel
	case "info", "INFO", "": // make the zero value useful
		*l = InfoLevel
	case "warn", "WARN":
		*l = WarnLevel
	case "error", "ERROR":
		*l = ErrorLevel
	case "fatal", "FATAL":
		*l = FatalLevel
	default:
		return false
	}
	return true
}

// Logger is the facade every package logs through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

var (
	globalLogger *zap.SugaredLogger

	defaultLoggingConfig = &LoggingConfig{
		LogName:       "txkit.log",
		LogPath:       "log",
		LogLevel:      -1,
		LogMaxSize:    10,
		LogMaxBackups: 5,
		LogMaxAge:     30,
		LogCompress:   false,
	}
)

func init() {
	globalLogger = NewLogger(defaultLoggingConfig)
}

// Init replaces the global logger with one built from cfg.
func Init(cfg *LoggingConfig) {
	globalLogger = NewLogger(cfg)
}

func NewLogger(cfg *LoggingConfig) *zap.SugaredLogger {
	syncer := zapcore.NewMultiWriteSyncer(zapcore.AddSync(buildLumberJack(cfg)), zapcore.AddSync(os.Stdout))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, syncer, zap.NewAtomicLevelAt(getLoggerLevel(cfg.LogLevel)))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func buildLumberJack(cfg *LoggingConfig) *lumberjack.Logger {
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = "."
	}
	return &lumberjack.Logger{
		Filename:   logPath + string(os.PathSeparator) + cfg.LogName,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}
}

func getLoggerLevel(level int) zapcore.Level {
	lv := LogLevel(level)
	if lv < _minLevel || lv > _maxLevel {
		return zapcore.InfoLevel
	}
	return zapcore.Level(lv)
}

func Debug(v ...interface{}) {
	globalLogger.Debug(v...)
}

func Debugf(format string, v ...interface{}) {
	globalLogger.Debugf(format, v...)
}

func Info(v ...interface{}) {
	globalLogger.Info(v...)
}

func Infof(format string, v ...interface{}) {
	globalLogger.Infof(format, v...)
}

func Warn(v ...interface{}) {
	globalLogger.Warn(v...)
}

func Warnf(format string, v ...interface{}) {
	globalLogger.Warnf(format, v...)
}

func Error(v ...interface{}) {
	globalLogger.Error(v...)
}

func Errorf(format string, v ...interface{}) {
	globalLogger.Errorf(format, v...)
}

func Fatal(v ...interface{}) {
	globalLogger.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	globalLogger.Fatalf(format, v...)
}
