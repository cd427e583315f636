package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// ColoredLogger wraps zap.Logger with colored output
type ColoredLogger struct {
	*zap.Logger
	enableColors bool
}

// Component represents different parts of the system for color coding
type Component string

const (
	ComponentClient    Component = "CLIENT"
	ComponentAuth      Component = "AUTH"
	ComponentFallback  Component = "FALLBACK"
	ComponentReferral  Component = "REFERRAL"
	ComponentDevServer Component = "DEVSERVER"
	ComponentCLI       Component = "CLI"
	ComponentGeneral   Component = "GENERAL"
)

// getComponentColor returns the color for a specific component
func getComponentColor(component Component) string {
	switch component {
	case ComponentClient:
		return Blue
	case ComponentAuth:
		return BrightMagenta
	case ComponentFallback:
		return BrightYellow
	case ComponentReferral:
		return BrightCyan
	case ComponentDevServer:
		return BrightGreen
	case ComponentCLI:
		return Cyan
	case ComponentGeneral:
		return Yellow
	default:
		return White
	}
}

// getLevelColor returns the color for a log level
func getLevelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Gray
	case zapcore.InfoLevel:
		return BrightWhite
	case zapcore.WarnLevel:
		return BrightYellow
	case zapcore.ErrorLevel:
		return BrightRed
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Red
	default:
		return White
	}
}

// coloredConsoleEncoder creates a custom encoder with colors
func coloredConsoleEncoder(enableColors bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	// HH:MM:SS only
	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		timeStr := t.Format("15:04:05")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, timeStr, Reset))
		} else {
			enc.AppendString(timeStr)
		}
	}

	// Single letter level: D, I, W, E
	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		levelMap := map[zapcore.Level]string{
			zapcore.DebugLevel: "D",
			zapcore.InfoLevel:  "I",
			zapcore.WarnLevel:  "W",
			zapcore.ErrorLevel: "E",
		}
		levelStr := levelMap[level]
		if levelStr == "" {
			levelStr = "?"
		}
		if enableColors {
			color := getLevelColor(level)
			enc.AppendString(fmt.Sprintf("%s%s%s%s", color, Bold, levelStr, Reset))
		} else {
			enc.AppendString(levelStr)
		}
	}

	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		file = strings.TrimSuffix(file, ".go")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, file, Reset))
		} else {
			enc.AppendString(file)
		}
	}

	return zapcore.NewConsoleEncoder(config)
}

func newLogger(encoder zapcore.Encoder, out io.Writer, level zapcore.Level, enableColors bool) *ColoredLogger {
	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return &ColoredLogger{
		Logger:       zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		enableColors: enableColors,
	}
}

// NewColoredLogger creates a new colored logger writing to stderr so command
// output on stdout stays machine readable.
func NewColoredLogger(component Component, enableColors bool) (*ColoredLogger, error) {
	return newLogger(coloredConsoleEncoder(enableColors), os.Stderr, zapcore.DebugLevel, enableColors), nil
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger(component Component) (*ColoredLogger, error) {
	return NewColoredLogger(component, true)
}

// NewWriterLogger creates a plain (uncolored) logger writing to w at the given level.
func NewWriterLogger(w io.Writer, level zapcore.Level) *ColoredLogger {
	return newLogger(coloredConsoleEncoder(false), w, level, false)
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(component Component, filePath string, enableColors bool) (*ColoredLogger, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return newLogger(coloredConsoleEncoder(enableColors), file, zapcore.DebugLevel, enableColors), nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *ColoredLogger {
	return &ColoredLogger{Logger: zap.NewNop()}
}

// FromConfig builds a logger from the logging section of the configuration.
// format is "console" (default) or "json"; an empty file means stderr.
func FromConfig(level, format, file string) (*ColoredLogger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	var out io.Writer = os.Stderr
	colors := true
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", file, err)
		}
		out = f
		colors = false
	}

	var encoder zapcore.Encoder
	switch format {
	case "", "console":
		encoder = coloredConsoleEncoder(colors)
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		colors = false
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return newLogger(encoder, out, lvl, colors), nil
}

func (l *ColoredLogger) tag(component Component, msg string) string {
	if l.enableColors {
		return fmt.Sprintf("%s[%s]%s %s", getComponentColor(component), component, Reset, msg)
	}
	return fmt.Sprintf("[%s] %s", component, msg)
}

// Component-specific logging methods
func (l *ColoredLogger) ComponentInfo(component Component, msg string, fields ...zap.Field) {
	l.Info(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentWarn(component Component, msg string, fields ...zap.Field) {
	l.Warn(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentError(component Component, msg string, fields ...zap.Field) {
	l.Error(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentDebug(component Component, msg string, fields ...zap.Field) {
	l.Debug(l.tag(component, msg), fields...)
}

// StandardLogger adapts a ColoredLogger to the Print-style interface expected
// by chi's request logger.
type StandardLogger struct {
	logger    *ColoredLogger
	component Component
}

// NewStandardLogger wraps an existing logger for a component.
func NewStandardLogger(logger *ColoredLogger, component Component) *StandardLogger {
	return &StandardLogger{
		logger:    logger,
		component: component,
	}
}

// Printf implements the standard library log interface
func (s *StandardLogger) Printf(format string, v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

// Print implements the standard library log interface
func (s *StandardLogger) Print(v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprint(v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

// Println implements the standard library log interface
func (s *StandardLogger) Println(v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintln(v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

func (s *StandardLogger) Errorf(format string, v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, v...), "\n")
	s.logger.ComponentError(s.component, msg)
}
