package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner returns the ASCII art banner for the application header
var Banner = []string{
	"    _  _____ _____  _   _   _ ____ ___ _____ ",
	"   / \\|_   _|_   _|/ \\ | | | |  _ \\_ _|_   _|",
	"  / _ \\ | |   | | / _ \\| | | | | | | |  | |  ",
	" / ___ \\| |   | |/ ___ \\ |_| | |_| | |  | |  ",
	"/_/   \\_\\_|   |_/_/   \\_\\___/|____/___| |_|  ",
}

// RenderBanner returns the styled banner as a string
func RenderBanner(dryRun bool) string {
	bannerStyle := lipgloss.NewStyle().
		Foreground(ColorCyan).
		Align(lipgloss.Center)

	var lines []string
	for _, line := range Banner {
		lines = append(lines, bannerStyle.Render(line))
	}

	// Add dry run warning if enabled
	if dryRun {
		lines = append(lines, "")
		warningStyle := lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true).
			Align(lipgloss.Center)
		lines = append(lines, warningStyle.Render("⚠ DRY RUN MODE (in-memory backend)"))
	}

	return strings.Join(lines, "\n")
}
