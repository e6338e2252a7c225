package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface defines the logging methods we need.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Close() error
}

type zapLogger struct {
	logger  *zap.SugaredLogger
	syncFn  func() error
	closers []func() error
	mu      sync.Mutex
}

// generateLogFileName builds a timestamped log file name inside dir.
func generateLogFileName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("bot_%s.log", now.Format("2006-01-02_15-04-05")))
}

// resolveLogFile returns the file to write to. A logFile that names a directory
// (an existing one, or any path ending in a separator) gets a timestamped file inside it.
func resolveLogFile(logFile string, now time.Time) string {
	if strings.HasSuffix(logFile, "/") || strings.HasSuffix(logFile, string(os.PathSeparator)) {
		return generateLogFileName(logFile, now)
	}
	if info, err := os.Stat(logFile); err == nil && info.IsDir() {
		return generateLogFileName(logFile, now)
	}
	return logFile
}

// New creates a new logger with the specified log level. When logFile is set,
// output is duplicated into that file, or into a timestamped file when logFile is a directory.
func New(logLevel string, logFile string) (Logger, error) {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	var writers []zapcore.WriteSyncer
	var closers []func() error

	writers = append(writers, zapcore.AddSync(os.Stdout))

	if logFile != "" {
		logFile = resolveLogFile(logFile, time.Now())
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		writers = append(writers, zapcore.AddSync(file))
		closers = append(closers, file.Close)
	}

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)

	logger := zap.New(
		core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	sugar := logger.Sugar()

	return &zapLogger{
		logger: sugar,
		syncFn: func() error {
			// Sync on stdout fails with EINVAL on some platforms.
			_ = sugar.Sync()
			return nil
		},
		closers: closers,
	}, nil
}

func (l *zapLogger) Debugf(template string, args ...interface{}) {
	l.logger.Debugf(template, args...)
}

func (l *zapLogger) Infof(template string, args ...interface{}) {
	l.logger.Infof(template, args...)
}

func (l *zapLogger) Warnf(template string, args ...interface{}) {
	l.logger.Warnf(template, args...)
}

func (l *zapLogger) Errorf(template string, args ...interface{}) {
	l.logger.Errorf(template, args...)
}

func (l *zapLogger) Fatalf(template string, args ...interface{}) {
	l.logger.Fatalf(template, args...)
}

// Close flushes buffered entries and closes the log file, if any.
func (l *zapLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.syncFn()

	var lastErr error
	for _, closer := range l.closers {
		if err := closer(); err != nil {
			lastErr = err
		}
	}
	l.closers = nil

	return lastErr
}

// parseLogLevel converts a string level to zapcore.Level.
func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "dpanic":
		return zapcore.DPanicLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
