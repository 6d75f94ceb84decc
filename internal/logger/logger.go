package logger

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Diagnostics default to stderr so record output on stdout stays clean and
// pipeable.
var (
	currentLevel  = LevelInfo
	currentFormat = "text"
	logger        = stdlog.New(os.Stderr, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetFormat selects the log line format: "text" or "json".
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "text", "json":
		currentFormat = strings.ToLower(format)
	}
}

// SetOutput redirects log output: "stdout", "stderr", or a file path.
// A file is opened in append mode and stays open for the process lifetime.
func SetOutput(output string) error {
	var w io.Writer
	switch output {
	case "stdout":
		w = os.Stdout
	case "stderr", "":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	}
	logger.SetOutput(w)
	return nil
}

func log(level Level, format string, v ...any) {
	if level < currentLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, v...)

	if currentFormat == "json" {
		line, err := json.Marshal(map[string]string{
			"time":    timestamp,
			"level":   level.String(),
			"message": message,
		})
		if err == nil {
			logger.Println(string(line))
			return
		}
		// fall back to text on marshal failure
	}

	prefix := fmt.Sprintf("[%s] [%s] ", timestamp, level.String())
	logger.Println(prefix + message)
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
