package contract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/cyclereport/schema"
)

// Accuracy label constants.
const (
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgGreen, color.Bold) // HighColor represents estimates that held.
	ModerateColor = color.New(color.FgYellow)            // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgRed, color.Bold)   // LowColor represents estimates that missed badly.
	MutedColor    = color.New(color.FgHiBlack)           // MutedColor represents values with no meaning.
)

// GetPlainLabel returns a plain text label for a capacity accuracy. This is
// the core logic used for JSON and table printing.
func GetPlainLabel(acc schema.CapacityAccuracy) string {
	v, ok := acc.Value()
	switch {
	case !ok:
		return schema.NotApplicableText
	case v >= 90:
		return HighValue
	case v >= 70:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(acc schema.CapacityAccuracy) string {
	text := GetPlainLabel(acc)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	default: // "N/A"
		return MutedColor.Sprint(text)
	}
}

// ParseBoolString parses yes/no style booleans used by flags and env vars.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseLogLevel parses a log level name. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: invalid log level '%s'. must be debug, info, warn, error", ErrConfig, level)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the path provided.
// An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cyclereport_history.db"
	}
	return filepath.Join(homeDir, ".cyclereport_history.db")
}
