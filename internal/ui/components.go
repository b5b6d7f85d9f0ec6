package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// SpinnerFrames are braille characters cycled by the tick loop
var SpinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner returns the spinner character at the given frame index
func Spinner(frame int) string {
	return string(SpinnerFrames[frame%len(SpinnerFrames)])
}

// ArrowStyled returns a styled arrow indicator for selection
func ArrowStyled(selected bool, color lipgloss.Color) string {
	if !selected {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(color).Render("▶ ")
}

// KeyBinding renders a key binding hint
func KeyBinding(key, description string, color lipgloss.Color) string {
	keyStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		descStyle.Render(description),
	)
}

// StatusIcon returns the appropriate status icon and color
func StatusIcon(status string) (string, lipgloss.Color) {
	switch status {
	case "succeeded", "saved":
		return "✓", ColorGreen
	case "failed":
		return "✗", ColorRed
	case "pending":
		return "⏳", ColorYellow
	default:
		return "·", ColorWhite
	}
}

// Hyperlink wraps text in an OSC 8 link; terminals without support show text only
func Hyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return termenv.Hyperlink(url, text)
}

// MenuInfoPanel returns the ASCII art and description for a menu item
func MenuInfoPanel(index int) (title string, lines []string) {
	switch index {
	case 0: // Browse repository
		title = "Browse Repository"
		box := lipgloss.NewStyle().Foreground(ColorCyan)
		text := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
		lines = []string{
			"",
			box.Render("        ○───○───○───○") + text.Render(" main"),
			"",
			"  • Lists commits 10 at a time",
			"  • Remembers recent repositories",
			"  • Pick a commit to analyze",
		}
	case 1: // Commit URL
		title = "Analyze Commit URL"
		box := lipgloss.NewStyle().Foreground(ColorMagenta)
		text := lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
		lines = []string{
			"",
			box.Render("        ┌──────────────┐"),
			box.Render("        │") + text.Render("  /commit/sha ") + box.Render("│"),
			box.Render("        └──────────────┘"),
			"",
			"  • Paste a full GitHub commit URL",
			"  • Add an AI chat log as context",
		}
	case 2: // History
		title = "Audit History"
		style := lipgloss.NewStyle().Foreground(ColorYellow)
		lines = []string{
			"",
			style.Render("        ▤ v1.2  abc1234"),
			style.Render("        ▤ hotfix  9f8e7d6"),
			"",
			"  • Search by sha, tag or summary",
			"  • Filter by repository",
			"  • Reopen a saved audit",
		}
	default: // Quit
		title = "Quit"
		lines = []string{
			"",
			"  Exit the application",
		}
	}
	return title, lines
}

// Tabs renders the tab strip; the active tab is highlighted in its color
func Tabs(titles []string, colors []lipgloss.Color, active int) string {
	var parts []string
	for i, title := range titles {
		label := fmt.Sprintf(" %d %s ", i+1, title)
		if i == active {
			parts = append(parts, lipgloss.NewStyle().Foreground(colors[i]).Bold(true).Underline(true).Render(label))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(ColorDarkGray).Render(label))
		}
	}
	return "  " + strings.Join(parts, lipgloss.NewStyle().Foreground(ColorDarkGray).Render("│"))
}

// UnifiedPanel creates two columns with a vertical separator (no border - outer border is in View)
func UnifiedPanel(leftContent, rightContent string, leftWidth, rightWidth int, borderColor lipgloss.Color) string {
	leftStyle := lipgloss.NewStyle().Width(leftWidth).Padding(0, 1)
	rightStyle := lipgloss.NewStyle().Width(rightWidth).Padding(0, 1)

	leftCol := leftStyle.Render(leftContent)
	rightCol := rightStyle.Render(rightContent)

	// Build vertical separator to match column height
	separatorStyle := lipgloss.NewStyle().Foreground(borderColor)
	separator := separatorStyle.Render("│")

	leftLines := strings.Split(leftCol, "\n")
	rightLines := strings.Split(rightCol, "\n")
	maxLines := max(len(leftLines), len(rightLines))
	sepLines := make([]string, maxLines)
	for i := range sepLines {
		sepLines[i] = separator
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, strings.Join(sepLines, "\n"), rightCol)
}

// TextInput renders a bordered single-line input box. The cursor is shown
// only when focused; placeholder is shown while value is empty.
// If width > 0, the box will have a fixed width
func TextInput(value, placeholder, title string, color lipgloss.Color, focused bool, width int) string {
	var display string
	if value == "" {
		display = lipgloss.NewStyle().Foreground(ColorDarkGray).Render(placeholder)
	} else {
		display = lipgloss.NewStyle().Foreground(ColorYellow).Render(value)
	}

	borderColor := color
	if focused {
		display += lipgloss.NewStyle().Foreground(ColorYellow).Render("█")
	} else {
		borderColor = ColorDarkGray
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	if width > 0 {
		style = style.Width(width)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	return style.Render(titleStyle.Render(title) + "\n" + display)
}

// FilterInput renders a search/filter input box
// If width > 0, the box will have a fixed width
func FilterInput(filter string, title string, color lipgloss.Color, width int) string {
	var filterDisplay string
	if filter == "" {
		filterDisplay = lipgloss.NewStyle().Foreground(ColorDarkGray).Render("Type to filter...")
	} else {
		filterDisplay = lipgloss.NewStyle().Foreground(ColorYellow).Render(filter)
	}

	cursor := lipgloss.NewStyle().Foreground(ColorYellow).Render("█")
	searchIcon := lipgloss.NewStyle().Foreground(ColorCyan).Render(" 🔍 ")

	content := searchIcon + filterDisplay + cursor

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	if width > 0 {
		style = style.Width(width)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	return style.Render(titleStyle.Render(title) + "\n" + content)
}

// CommitListItem renders a commit row: short sha, subject, author and age.
// badge is shown after the sha when set (e.g. "HEAD").
func CommitListItem(shortSHA, subject, author, age, badge string, highlighted bool, color lipgloss.Color) string {
	var subjectStyle lipgloss.Style
	if highlighted {
		subjectStyle = lipgloss.NewStyle().Foreground(color).Bold(true)
	} else {
		subjectStyle = lipgloss.NewStyle().Foreground(ColorWhite)
	}
	shaStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	dimStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)

	line := ArrowStyled(highlighted, color) + shaStyle.Render(shortSHA)
	if badge != "" {
		line += " " + lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).Render("["+badge+"]")
	}
	return line + " " + subjectStyle.Render(subject) + dimStyle.Render(fmt.Sprintf("  %s · %s", author, age))
}

// HistoryListItem renders a saved audit for the history view
func HistoryListItem(repoName, shortSHA, tag, preview string, highlighted bool, color lipgloss.Color) string {
	cursor := " "
	if highlighted {
		cursor = ">"
	}

	var nameStyle lipgloss.Style
	if highlighted {
		nameStyle = lipgloss.NewStyle().Foreground(color).Bold(true)
	} else {
		nameStyle = lipgloss.NewStyle().Bold(true)
	}
	shaStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	tagStyle := lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)
	previewStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)

	line1 := fmt.Sprintf("  %s %s %s",
		nameStyle.Render(cursor),
		nameStyle.Render(repoName),
		shaStyle.Render(shortSHA),
	)
	if tag != "" {
		line1 += "  " + tagStyle.Render("#"+tag)
	}
	line2 := fmt.Sprintf("      %s", previewStyle.Render(preview))

	return line1 + "\n" + line2
}

// NoteListItem renders one note with an optional bold title
func NoteListItem(title, content string, highlighted bool, color lipgloss.Color) string {
	prefix := ArrowStyled(highlighted, color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	switch {
	case title != "" && content != "":
		return prefix + titleStyle.Render(title) + "\n    " + bodyStyle.Render(content)
	case title != "":
		return prefix + titleStyle.Render(title)
	default:
		return prefix + bodyStyle.Render(content)
	}
}

// MenuRow renders a menu row with optional highlight background
// width should be the inner width of the panel (excluding border)
func MenuRow(icon, title, desc string, color lipgloss.Color, selected bool, width int) []string {
	arrow := "  "
	if selected {
		arrow = "▶ "
	}

	if selected {
		// For selected items, render the whole line with background
		rowStyle := lipgloss.NewStyle().Background(ColorDarkGray).Width(width)
		arrowStyle := lipgloss.NewStyle().Foreground(color).Background(ColorDarkGray)
		iconStyle := lipgloss.NewStyle().Background(ColorDarkGray)
		titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true).Background(ColorDarkGray)
		descStyle := lipgloss.NewStyle().Foreground(ColorWhite).Background(ColorDarkGray)

		line1 := rowStyle.Render(arrowStyle.Render(arrow) + iconStyle.Render(icon+"  ") + titleStyle.Render(title))
		line2 := rowStyle.Render("       " + descStyle.Render(desc))

		return []string{line1, line2}
	}

	// Non-selected items - no background
	arrowStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	line1 := arrowStyle.Render(arrow) + icon + "  " + titleStyle.Render(title)
	line2 := "       " + descStyle.Render(desc)

	return []string{line1, line2}
}
