package sandbox

import (
	"time"
)

// Config defines sandbox configuration.
type Config struct {
	Timeout       time.Duration // Execution timeout
	MaxCallStack  int           // Max call stack depth
	EnableConsole bool          // Allow console.log/warn/error
}

// Result holds execution result.
type Result struct {
	Value    any           // Return value
	Console  []LogEntry    // Console output
	Duration time.Duration // Execution time
	Error    error         // Execution error
}

// LogEntry represents console output.
type LogEntry struct {
	Level   string    // log, warn, error
	Message string    // Log message
	Time    time.Time // Timestamp
}

// DefaultConfig returns the standard sandbox configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       2 * time.Second,
		MaxCallStack:  1024,
		EnableConsole: true,
	}
}
