package internal

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog logger writing leveled, timestamped console output.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		if lvl, err = log.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return slog.New(handler), nil
}
