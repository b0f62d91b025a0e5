// Package shared holds process setup used by the bingo command.
package shared

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// SetupLogger configures a charmbracelet logger writing to w.
func SetupLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "bingo",
	})
	logger.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	return logger
}

// ConfigureColor picks the lipgloss color profile for out, falling back to
// plain text when out is not a terminal or NO_COLOR is set.
func ConfigureColor(out io.Writer) termenv.Profile {
	profile := termenv.NewOutput(out).EnvColorProfile()
	lipgloss.SetColorProfile(profile)
	return profile
}
