package contract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Score band label constants.
const (
	StrongValue  = "Strong"  // Strong value
	StableValue  = "Stable"  // Stable value
	WatchValue   = "Watch"   // Watch value
	ConcernValue = "Concern" // Concern value
)

// Color variables for console output.
var (
	StrongColor  = color.New(color.FgGreen, color.Bold) // StrongColor represents healthy performance.
	StableColor  = color.New(color.FgCyan)              // StableColor represents an unremarkable result.
	WatchColor   = color.New(color.FgYellow)            // WatchColor represents standard caution, not bold.
	ConcernColor = color.New(color.FgRed, color.Bold)   // ConcernColor represents a result worth escalating.
)

// GetPlainLabel returns a plain text label for a score on the 1-5 scale.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 4:
		return StrongValue
	case score >= 3:
		return StableValue
	case score >= 2:
		return WatchValue
	default:
		return ConcernValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case StableValue:
		return StableColor.Sprint(text)
	case WatchValue:
		return WatchColor.Sprint(text)
	default:
		return ConcernColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	slog.Warn(msg, "error", err)
}

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".douremember.db"
	}
	return filepath.Join(homeDir, ".douremember.db")
}

// GetStorageDirPath returns the default directory for local image storage.
func GetStorageDirPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".douremember_objects"
	}
	return filepath.Join(homeDir, ".douremember_objects")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
