package logger

import (
	"os"
	"strings"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Env         string
	ServiceName string
	// OutputPaths defaults to stdout.
	OutputPaths []string
}

// New builds a JSON zap logger with the portal's initial fields.
func New(cfg *Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(getLogLevelFromString(cfg.Level)),
		Development:       cfg.Env == enums.EnvDevelopment,
		DisableStacktrace: cfg.Env != enums.EnvDevelopment,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"env":     cfg.Env,
			"service": cfg.ServiceName,
		},
	}

	return zapCfg.Build()
}

// Bootstrap is the configuration used until the real one has been loaded, so
// that configuration errors still reach the operator.
func Bootstrap(serviceName string) *Config {
	return &Config{
		Level:       enums.LogLevelInfo,
		Env:         enums.EnvProduction,
		ServiceName: serviceName,
		OutputPaths: []string{"stderr"},
	}
}

// Init replaces the global zap logger. Logging helpers in this package and in
// otel/logger write through it.
func Init(cfg *Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l.WithOptions(zap.AddCallerSkip(1)))
	return nil
}

func LogDebug(msg string, fields ...zap.Field) {
	zap.L().Debug(msg, fields...)
}

func LogInfo(msg string, fields ...zap.Field) {
	zap.L().Info(msg, fields...)
}

func LogWarn(msg string, fields ...zap.Field) {
	zap.L().Warn(msg, fields...)
}

func LogError(msg string, fields ...zap.Field) {
	zap.L().Error(msg, fields...)
}

func LogFatal(msg string, fields ...zap.Field) {
	zap.L().Fatal(msg, fields...)
}

// User logs a user by id and role only.
func User(u models.User) zap.Field {
	return zap.Object("user", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("id", u.ID)
		enc.AddString("role", u.Role.String())
		return nil
	}))
}

func getLogLevelFromString(level string) zapcore.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case enums.LogLevelDebug, "dbg":
		return zapcore.DebugLevel
	case enums.LogLevelInfo, "information":
		return zapcore.InfoLevel
	case enums.LogLevelWarn, "warning":
		return zapcore.WarnLevel
	case enums.LogLevelError, "err":
		return zapcore.ErrorLevel
	case enums.LogLevelFatal:
		return zapcore.FatalLevel
	case enums.LogLevelPanic:
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() {
	_ = zap.L().Sync()
}
