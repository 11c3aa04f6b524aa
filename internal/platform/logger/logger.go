package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON to stdout; handlers
// and services receive it by injection, never via a package global.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
