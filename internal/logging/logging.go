// Package logging builds the process logger: a console core on stderr plus
// an optional rotating JSON file core.
package logging

import (
	"fmt"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger. debug lowers the console level to Debug. logFile,
// when set, adds a JSON core writing to daily-rotated files kept for a week,
// with logFile itself a link to the current one.
func New(debug, noColor bool, logFile string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if noColor {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	consoleEncoderConfig.EncodeTime = timeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level),
	}

	if logFile != "" {
		writer, err := rotatelogs.New(
			logFile+".%Y-%m-%d",
			rotatelogs.WithLinkName(logFile),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = timeEncoder
		fileEncoder := zapcore.NewJSONEncoder(fileEncoderConfig)
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(writer), zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// timeEncoder formats log timestamps, the official layouts are hard to scan.
func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}
