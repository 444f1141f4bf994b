// Structured logging via go.uber.org/zap. DTO_LOG_LEVEL selects verbosity
// (0 fatal, 1 error, 2 trace, spec §6); DTO_LOG_FILE, when set, names a
// prefix the library appends ".<progname>.<pid>" to, falling back to
// stdout exactly as the original's dto_log does when no file is
// configured or the file cannot be opened.
package control

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a configured *zap.Logger with the level mapping DTO uses.
type Logger struct {
	z *zap.Logger
}

// NewLogger builds a Logger per DTO_LOG_FILE/DTO_LOG_LEVEL. level is
// clamped to [0,2] by api.LoadConfig before reaching here.
func NewLogger(filePrefix string, level int) *Logger {
	ws := zapcore.AddSync(os.Stdout)
	if filePrefix != "" {
		path := fmt.Sprintf("%s.%s.%d", filePrefix, filepath.Base(os.Args[0]), os.Getpid())
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			ws = zapcore.AddSync(f)
		}
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, ws, traceLevel(level))
	return &Logger{z: zap.New(core)}
}

// traceLevel maps DTO_LOG_LEVEL's 0/1/2 scale onto the zap core level that
// admits everything at or above it.
func traceLevel(level int) zapcore.Level {
	switch level {
	case 0:
		return zapcore.FatalLevel
	case 1:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

func (l *Logger) Trace(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.z.Sync() }
