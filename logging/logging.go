package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	out     io.Writer = os.Stderr
	logger            = newLogger(out, log.InfoLevel)
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Init replaces the package logger, writing to w at info or debug level
func Init(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	out = w
	logger = newLogger(out, level)
}

// Logger returns the underlying logger
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetupLogger tees log output to the specified log file
func SetupLogger(logFilePath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Check if logger is already set up
	if isSetup {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	level := logger.GetLevel()
	logger = newLogger(io.MultiWriter(out, logFile), level)
	logger.Debugf("--- layoutdna log started at %s ---", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Debugf("--- layoutdna log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		logger = newLogger(out, logger.GetLevel())
		isSetup = false
	}
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	Logger().Infof(format, args...)
}

// DebugLog logs a message at debug level
func DebugLog(format string, args ...interface{}) {
	Logger().Debugf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	Logger().Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	Logger().Warnf(format, args...)
}

// LogImageSegmented logs the outcome of segmenting one image
func LogImageSegmented(path string, crops int, err error) {
	if err != nil {
		Logger().Warn("segmentation failed", "path", path, "err", err)
		return
	}
	Logger().Debug("segmented", "path", path, "crops", crops)
}
