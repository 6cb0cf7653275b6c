package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stderr
	current           = newLogger(os.Stderr, log.InfoLevel)
)

// Config holds logger configuration.
type Config struct {
	Level   string
	LogFile string
}

// Init replaces the process logger. An empty LogFile logs to stderr only.
func Init(cfg Config) error {
	var writer io.Writer = os.Stderr
	if strings.TrimSpace(cfg.LogFile) != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return err
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = log.InfoLevel
	}

	mu.Lock()
	output = writer
	current = newLogger(writer, level)
	mu.Unlock()
	return nil
}

// Get returns the process logger.
func Get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Writer returns the destination the process logger writes to, for
// components such as the HTTP access log that format their own lines.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func newLogger(writer io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "tandem",
	})
}

func Debug(msg string, keyvals ...interface{}) {
	Get().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	Get().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Get().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Get().Error(msg, keyvals...)
}
