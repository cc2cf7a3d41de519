package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

func init() {
	Init(os.Getenv("APP_NAME"))
}

// Init rebuilds the package logger. Every record carries logName=appName.
func Init(appName string) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.CallerKey = "logger_name"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	logger = zap.New(core,
		zap.Fields(zap.String("logName", appName)),
		zap.AddCaller(),
		zap.AddCallerSkip(1))
	sugar = logger.Sugar()
}

// SetLevel changes the minimum enabled level ("debug", "info", "warn", "error").
// Unknown names leave the level untouched and return an error.
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// L returns the structured logger for callers that need zap directly.
func L() *zap.Logger {
	return logger
}

// Sync flushes buffered records.
func Sync() {
	_ = logger.Sync()
}

// Info logs a message at InfoLevel with structured fields.
func Info(message string, fields ...zap.Field) {
	logger.Info(message, fields...)
}

// Infow logs a message with key-value context.
func Infow(message string, keysAndValues ...interface{}) {
	sugar.Infow(message, keysAndValues...)
}

// Infof formats the message and logs it at InfoLevel.
func Infof(message string, args ...interface{}) {
	sugar.Infof(message, args...)
}

func Debugf(message string, args ...interface{}) {
	sugar.Debugf(message, args...)
}

func Warnf(message string, args ...interface{}) {
	sugar.Warnf(message, args...)
}

// Error logs a message at ErrorLevel with structured fields.
func Error(message string, fields ...zap.Field) {
	logger.Error(message, fields...)
}

// Errorw logs a message with key-value context.
func Errorw(message string, keysAndValues ...interface{}) {
	sugar.Errorw(message, keysAndValues...)
}

// Errorf formats the message and logs it at ErrorLevel.
func Errorf(message string, args ...interface{}) {
	sugar.Errorf(message, args...)
}

// Fatalf formats the message, logs it and calls os.Exit.
func Fatalf(message string, args ...interface{}) {
	sugar.Fatalf(message, args...)
}
