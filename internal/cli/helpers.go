// Package cli holds the glue between the cobra commands and the
// pipeline engine: logging setup, signal handling and run reporting.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/stylebot/internal/logging"
	"github.com/muesli/termenv"
)

// CreateLogger configures the application logger. In debug mode it
// writes to Stderr so log lines never mix with the report on Stdout.
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// PrintBanner writes the startup banner to stdout.
func PrintBanner() {
	p := termenv.ColorProfile()

	s1 := termenv.String(`      _         _      _           _   `).Foreground(p.Color("#818cf8"))
	s2 := termenv.String(` ___ | |_ _   _| | ___| |__   ___ | |_ `).Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(`/ __|| __| | | | |/ _ \ '_ \ / _ \| __|`).Foreground(p.Color("#c084fc"))
	s4 := termenv.String(`\__ \| |_| |_| | |  __/ |_) | (_) | |_ `).Foreground(p.Color("#e879f9"))
	s5 := termenv.String(`|___/ \__|\__, |_|\___|_.__/ \___/ \__|`).Foreground(p.Color("#f472b6"))
	s6 := termenv.String(`          |___/                        `).Foreground(p.Color("#fb7185"))

	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
}
