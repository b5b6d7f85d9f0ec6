package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wahlandcase/attuned.audit/internal/history"
	"github.com/wahlandcase/attuned.audit/internal/ingest"
	"github.com/wahlandcase/attuned.audit/internal/models"
	"github.com/wahlandcase/attuned.audit/internal/notes"
	"github.com/wahlandcase/attuned.audit/internal/recent"
	"github.com/wahlandcase/attuned.audit/internal/ui"
)

// contentWidth returns the usable content width, adapting to terminal size
func (m Model) contentWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	return w
}

// View renders the application
func (m Model) View() string {
	if m.shouldQuit {
		return ""
	}

	// Calculate fixed element heights
	bannerLines := len(ui.Banner)
	if m.dryRun {
		bannerLines += 2 // dry run warning
	}
	statusHeight := 3 // status bar with border

	// Available height for content = total - banner - gaps - status
	availableHeight := m.height - bannerLines - 3 - statusHeight
	if availableHeight < 10 {
		availableHeight = 10
	}

	var sections []string

	// Banner
	sections = append(sections, ui.RenderBanner(m.dryRun))
	sections = append(sections, "")

	if m.screen == ScreenLoading {
		sections = append(sections, m.renderLoading())
	} else {
		outerBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorPurple).
			Width(m.contentWidth()).
			Padding(1, 2)

		sections = append(sections, outerBox.Render(m.renderContentWithHeight(availableHeight)))
	}

	// Status bar
	sections = append(sections, "")
	sections = append(sections, m.renderStatusBar())

	content := strings.Join(sections, "\n")

	// Center horizontally in the terminal
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func (m Model) renderContentWithHeight(availableHeight int) string {
	switch m.screen {
	case ScreenMainMenu:
		return m.renderMainMenu()
	case ScreenRepoInput:
		return m.renderRepoInput()
	case ScreenCommitSelect:
		return m.renderCommitSelectWithHeight(availableHeight)
	case ScreenManualURL:
		return m.renderManualURL()
	case ScreenContextInput:
		return m.renderContextInput()
	case ScreenResults:
		return m.renderResultsWithHeight(availableHeight)
	case ScreenHistory:
		return m.renderHistoryWithHeight(availableHeight)
	case ScreenError:
		return m.renderError()
	default:
		return ""
	}
}

func (m Model) renderMainMenu() string {
	menuItems := []struct {
		icon  string
		title string
		desc  string
		color lipgloss.Color
	}{
		{"1.", "BROWSE REPOSITORY", "Pick a commit from a GitHub repo", ui.ColorCyan},
		{"2.", "COMMIT URL", "Analyze a commit by its URL", ui.ColorMagenta},
		{"3.", "HISTORY", "Reopen a saved audit", ui.ColorYellow},
		{"4.", "QUIT", "Exit application", ui.ColorRed},
	}

	// Build left column (menu) content
	var menuLines []string
	menuLines = append(menuLines, "")
	for i, item := range menuItems {
		rows := ui.MenuRow(item.icon, item.title, item.desc, item.color, i == m.menuIndex, 46)
		menuLines = append(menuLines, rows...)
		menuLines = append(menuLines, "")
	}

	menuTitleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorOrange)
	menuContent := menuTitleStyle.Render(" Select Mode ") + "\n" + strings.Join(menuLines, "\n")

	// Build right column (info panel)
	infoTitle, infoLines := ui.MenuInfoPanel(m.menuIndex)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWhite)
	infoContent := titleStyle.Render(" "+infoTitle+" ") + "\n" + strings.Join(infoLines, "\n")

	return ui.UnifiedPanel(menuContent, infoContent, 48, 48, ui.ColorCyan)
}

func (m Model) renderInputError(lines []string) []string {
	if m.inputError == "" {
		return lines
	}
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorRed).Bold(true)
	return append(lines, "", errorStyle.Render("  ✗ "+m.inputError))
}

func (m Model) renderRepoInput() string {
	width := m.contentWidth() - 8
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)

	var lines []string
	lines = append(lines, ui.SectionHeader("REPOSITORY", ui.ColorCyan))
	lines = append(lines, "")
	lines = append(lines, ui.TextInput(m.repoInput, "https://github.com/owner/repo", "GitHub Repository URL", ui.ColorCyan, true, width))
	lines = m.renderInputError(lines)

	if m.checkout != nil && m.checkout.RepoURL != "" {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("  Local checkout: "+m.checkout.RepoURL))
	}

	if entries := m.recents.Entries(); len(entries) > 0 {
		lines = append(lines, "")
		lines = append(lines, ui.SectionHeader("RECENT", ui.ColorYellow))
		for i, entry := range entries {
			highlighted := i == m.recentIndex
			style := lipgloss.NewStyle().Foreground(ui.ColorWhite)
			if highlighted {
				style = lipgloss.NewStyle().Foreground(ui.ColorYellow).Bold(true)
			}
			lines = append(lines, "  "+ui.ArrowStyled(highlighted, ui.ColorYellow)+style.Render(entry))
		}
	}

	return strings.Join(lines, "\n")
}

// headSHA is the local checkout's HEAD when it belongs to the browsed repository
func (m Model) headSHA() string {
	if m.checkout == nil || m.checkout.Head.SHA == "" {
		return ""
	}
	if recent.Normalize(m.checkout.RepoURL) != recent.Normalize(m.browser.RepoURL()) {
		return ""
	}
	return m.checkout.Head.SHA
}

func (m Model) renderCommitSelectWithHeight(availableHeight int) string {
	commits := m.browser.Commits()
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	width := m.contentWidth() - 8

	var lines []string
	lines = append(lines, ui.SectionHeader("COMMITS", ui.ColorCyan))
	lines = append(lines, dimStyle.Render("  "+m.browser.RepoURL()))
	lines = append(lines, "")
	headerLines := len(lines)

	if len(commits) == 0 {
		lines = append(lines, dimStyle.Render("  No commits found."))
		return strings.Join(lines, "\n")
	}

	head := m.headSHA()
	for i, commit := range commits {
		badge := ""
		if head != "" && commit.SHA == head {
			badge = "HEAD"
		}
		subject := truncateString(commit.Subject(), max(width-40, 20))
		lines = append(lines, ui.CommitListItem(commit.ShortSHA(), subject, commit.AuthorName, relativeTime(commit.Date), badge, i == m.commitIndex, ui.ColorCyan))
	}

	lines = append(lines, "")
	switch {
	case m.browser.Loading():
		spinnerStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
		lines = append(lines, spinnerStyle.Render("  "+ui.Spinner(m.spinnerFrame)+" Loading more commits..."))
	case m.browser.HasMore():
		lines = append(lines, dimStyle.Render(fmt.Sprintf("  Page %d · press m for more", m.browser.Page())))
	default:
		lines = append(lines, dimStyle.Render("  End of history"))
	}

	visible := max(availableHeight-headerLines-4, 5)
	return applyViewportScroll(lines, headerLines, headerLines+m.commitIndex, visible)
}

func (m Model) renderManualURL() string {
	var lines []string
	lines = append(lines, ui.SectionHeader("COMMIT URL", ui.ColorMagenta))
	lines = append(lines, "")
	lines = append(lines, ui.TextInput(m.manualURL, "https://github.com/owner/repo/commit/sha", "GitHub Commit URL", ui.ColorMagenta, true, m.contentWidth()-8))
	lines = m.renderInputError(lines)
	return strings.Join(lines, "\n")
}

func (m Model) renderContextInput() string {
	labelStyle := lipgloss.NewStyle().Foreground(ui.ColorWhite).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ui.ColorYellow)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	width := m.contentWidth() - 8

	var lines []string
	lines = append(lines, ui.SectionHeader("ANALYZE", ui.ColorGreen))
	lines = append(lines, "")

	switch {
	case m.selection.Mode == ingest.ModeSelected && m.selection.Commit != nil:
		lines = append(lines, labelStyle.Render("  Commit: ")+valueStyle.Render(m.selection.Commit.ShortSHA()+" "+truncateString(m.selection.Commit.Subject(), width-20)))
		lines = append(lines, labelStyle.Render("  Repo:   ")+dimStyle.Render(m.selection.RepoURL))
	case m.selection.CommitURL != "":
		lines = append(lines, labelStyle.Render("  Commit: ")+valueStyle.Render(m.selection.CommitURL))
	}

	// Long pasted logs are shown by their tail
	display := m.chatLogInput
	if runes := []rune(display); len(runes) > width-6 && width > 10 {
		display = "…" + string(runes[len(runes)-(width-7):])
	}
	display = strings.ReplaceAll(display, "\n", " ")

	lines = append(lines, "")
	lines = append(lines, ui.TextInput(display, "Paste an AI chat log (optional)", "Chat Context", ui.ColorGreen, true, width))
	lines = m.renderInputError(lines)
	return strings.Join(lines, "\n")
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	spinner := ui.Spinner(m.spinnerFrame)
	spinnerStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)
	textStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan)

	loadingText := fmt.Sprintf("%s %s", spinnerStyle.Render(spinner), textStyle.Render(message))

	// Center the text within the box
	innerWidth := m.contentWidth() - 6
	centeredStyle := lipgloss.NewStyle().Width(innerWidth).Align(lipgloss.Center)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "")
	lines = append(lines, centeredStyle.Render(loadingText))
	lines = append(lines, "")
	lines = append(lines, "")

	content := strings.Join(lines, "\n")

	// Purple border box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPurple).
		Width(m.contentWidth()).
		Padding(1, 2)

	return boxStyle.Render(content)
}

func (m Model) renderResultsWithHeight(availableHeight int) string {
	section := m.currentSection()
	color := ui.SectionColor(string(section))
	linkStyle := lipgloss.NewStyle().Foreground(ui.ColorBlue).Underline(true)

	width := m.contentWidth() - 8
	leftWidth := width * 3 / 5
	rightWidth := width - leftWidth - 1

	var header []string
	header = append(header, "  "+ui.Hyperlink(m.session.CommitURL, linkStyle.Render(m.session.CommitURL)))
	switch {
	case m.tagger.Loading():
		icon, iconColor := ui.StatusIcon("pending")
		header[0] += lipgloss.NewStyle().Foreground(iconColor).Render("  " + icon + " saving")
	case m.savedRecord != nil:
		icon, iconColor := ui.StatusIcon("saved")
		header[0] += lipgloss.NewStyle().Foreground(iconColor).Render("  " + icon + " saved")
		if m.savedRecord.Tag != "" {
			header[0] += lipgloss.NewStyle().Foreground(ui.ColorMagenta).Bold(true).Render("  #" + m.savedRecord.Tag)
		}
	}
	header = append(header, "")

	titles := make([]string, len(models.Sections))
	colors := make([]lipgloss.Color, len(models.Sections))
	for i, s := range models.Sections {
		titles[i] = s.Title()
		colors[i] = ui.SectionColor(string(s))
	}
	header = append(header, ui.Tabs(titles, colors, m.tab))
	header = append(header, "")

	// Left column: analysis section with its notes
	var left []string
	left = append(left, m.renderSection(section, leftWidth-4)...)
	left = append(left, "")
	left = append(left, m.renderNotes(color, leftWidth-4)...)

	// Right column: chat
	right := m.renderChat(rightWidth-4, max(availableHeight-len(header)-6, 6))

	return strings.Join(header, "\n") + "\n" + ui.UnifiedPanel(strings.Join(left, "\n"), strings.Join(right, "\n"), leftWidth, rightWidth, ui.ColorDarkGray)
}

func (m Model) renderSection(section models.Section, width int) []string {
	analysis := m.session.Analysis
	textStyle := lipgloss.NewStyle().Foreground(ui.ColorWhite).Width(width)
	boldStyle := lipgloss.NewStyle().Foreground(ui.SectionColor(string(section))).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)

	var lines []string
	lines = append(lines, ui.SectionHeader(strings.ToUpper(section.Title()), ui.SectionColor(string(section))))

	switch section {
	case models.SectionSummary:
		summary := analysis.Summary
		if summary == "" {
			summary = "No summary available."
		}
		lines = append(lines, textStyle.Render(summary))
	case models.SectionTechnologies:
		if len(analysis.Technologies) == 0 {
			lines = append(lines, dimStyle.Render("  None identified."))
		}
		for _, tech := range analysis.Technologies {
			lines = append(lines, "  • "+boldStyle.Render(tech))
		}
	case models.SectionAlternatives:
		if len(analysis.Alternatives) == 0 {
			lines = append(lines, dimStyle.Render("  None suggested."))
		}
		for _, alt := range analysis.Alternatives {
			lines = append(lines, "  • "+boldStyle.Render(alt.Method))
			lines = append(lines, textStyle.Render("    "+alt.Justification))
		}
	case models.SectionFaults:
		if len(analysis.Faults) == 0 {
			lines = append(lines, dimStyle.Render("  No faults found."))
		}
		for _, fault := range analysis.Faults {
			lines = append(lines, "  ✗ "+boldStyle.Render(fault.Point))
			lines = append(lines, textStyle.Render("    Risk: "+fault.Risk))
		}
		if len(analysis.Faults) > 0 {
			lines = append(lines, "")
			if m.acknowledged {
				lines = append(lines, lipgloss.NewStyle().Foreground(ui.ColorGreen).Render("  ✓ Faults acknowledged"))
			} else {
				lines = append(lines, dimStyle.Render("  Press a to acknowledge"))
			}
		}
	}
	return lines
}

func (m Model) renderNotes(color lipgloss.Color, width int) []string {
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)

	var lines []string
	lines = append(lines, ui.SectionHeader("NOTES", color))

	if m.notes == nil {
		return lines
	}

	if state, err := m.notes.SaveState(); state == models.OpPending {
		lines = append(lines, dimStyle.Render("  "+ui.Spinner(m.spinnerFrame)+" Saving..."))
	} else if state == models.OpFailed && err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(ui.ColorRed).Render("  ✗ "+models.UserMessage(err)))
	}

	if m.mode == modeNoteTitle || m.mode == modeNoteContent {
		lines = append(lines, ui.TextInput(m.noteTitle, "Title (optional)", "Note Title", color, m.mode == modeNoteTitle, width))
		lines = append(lines, ui.TextInput(m.noteContent, "Write a note...", "Note", color, m.mode == modeNoteContent, width))
	}

	entries := m.notes.Entries()
	if len(entries) == 0 {
		switch m.notes.LoadStatus() {
		case notes.LoadNone:
			lines = append(lines, dimStyle.Render("  "+ui.Spinner(m.spinnerFrame)+" Loading notes..."))
		case notes.LoadUnavailable:
			lines = append(lines, dimStyle.Render("  Notes are unavailable right now."))
		default:
			lines = append(lines, dimStyle.Render("  No notes yet. Press n to add one."))
		}
		return lines
	}

	for i, entry := range entries {
		lines = append(lines, ui.NoteListItem(entry.Title, truncateString(entry.Content, max(width-6, 10)), m.mode == modeBrowse && i == m.noteIndex, color))
	}
	return lines
}

func (m Model) renderChat(width, height int) []string {
	userStyle := lipgloss.NewStyle().Foreground(ui.ColorYellow).Bold(true)
	assistantStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true)
	textStyle := lipgloss.NewStyle().Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)

	var transcript []string
	if m.chat != nil {
		for _, turn := range m.chat.Transcript() {
			if turn.Role == models.RoleUser {
				transcript = append(transcript, userStyle.Render("You"))
			} else {
				transcript = append(transcript, assistantStyle.Render("Assistant"))
			}
			transcript = append(transcript, strings.Split(textStyle.Render(turn.Content), "\n")...)
			transcript = append(transcript, "")
		}
		if m.chat.Loading() {
			transcript = append(transcript, dimStyle.Render(ui.Spinner(m.spinnerFrame)+" Thinking..."))
		}
	}
	if len(transcript) == 0 {
		transcript = append(transcript, dimStyle.Render("Ask a question about this commit."))
	}

	// Keep the latest turns in view
	if len(transcript) > height {
		transcript = append([]string{dimStyle.Render("▲ earlier messages")}, transcript[len(transcript)-height+1:]...)
	}

	var lines []string
	lines = append(lines, ui.SectionHeader("CHAT", ui.ColorBlue))
	lines = append(lines, transcript...)
	lines = append(lines, "")

	if m.mode == modeTag {
		lines = append(lines, ui.TextInput(m.tagInput, "e.g. v1.2 or hotfix", "Tag", ui.ColorMagenta, true, width))
	} else {
		lines = append(lines, ui.TextInput(m.chatInput, "Press c to ask...", "Question", ui.ColorBlue, m.mode == modeChat, width))
	}
	return lines
}

func (m Model) renderHistoryWithHeight(availableHeight int) string {
	records := m.filteredRecords()
	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	repoStyle := lipgloss.NewStyle().Foreground(ui.ColorCyan).Bold(true)
	width := m.contentWidth() - 8

	var lines []string
	lines = append(lines, ui.FilterInput(m.historyQuery, "Search sha, tag or summary", ui.ColorYellow, width))

	repo := m.historyRepoFilter()
	if repo != history.AllRepositories {
		repo = history.RepoName(repo)
	}
	lines = append(lines, dimStyle.Render("  Repository: ")+repoStyle.Render(repo)+dimStyle.Render(fmt.Sprintf("  (%d of %d)", len(records), len(m.records))))
	lines = append(lines, "")
	headerLines := len(lines)

	if len(records) == 0 {
		if len(m.records) == 0 {
			lines = append(lines, dimStyle.Render("  No saved audits yet."))
		} else {
			lines = append(lines, dimStyle.Render("  No audits match."))
		}
		return strings.Join(lines, "\n")
	}

	highlighted := headerLines
	for i, record := range records {
		if i == m.historyIndex {
			highlighted = len(lines)
		}
		shortSHA := record.CommitSHA
		if len(shortSHA) > 7 {
			shortSHA = shortSHA[:7]
		}
		item := ui.HistoryListItem(history.RepoName(record.RepoURL), shortSHA, record.Tag, truncateString(history.PreviewSummary(record.AnalysisJSON), max(width-8, 20)), i == m.historyIndex, ui.ColorYellow)
		lines = append(lines, strings.Split(item, "\n")...)
		if !record.CreatedAt.IsZero() {
			lines = append(lines, dimStyle.Render("      "+relativeTime(record.CreatedAt)))
		}
	}

	visible := max(availableHeight-headerLines-6, 6)
	return applyViewportScroll(lines, headerLines, highlighted, visible)
}

func (m Model) renderError() string {
	var lines []string

	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorRed).Bold(true)

	lines = append(lines, "")
	lines = append(lines, errorStyle.Render("   ✗ Error"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("   %s", m.errorMessage))
	lines = append(lines, "")
	lines = append(lines, "   Press Enter to go back")

	return strings.Join(lines, "\n")
}

// applyViewportScroll keeps the highlighted line visible below fixed header lines
func applyViewportScroll(lines []string, headerLines int, highlightedLine int, visibleLines int) string {
	if len(lines) <= headerLines+visibleLines {
		// No scrolling needed
		return strings.Join(lines, "\n")
	}

	header := lines[:headerLines]
	content := lines[headerLines:]

	scrollOffset := 0
	if highlightedLine >= headerLines {
		highlightInContent := highlightedLine - headerLines

		// Keep some padding around the highlighted item
		padding := 2
		if highlightInContent >= visibleLines-padding {
			scrollOffset = highlightInContent - visibleLines + padding + 1
		}
		scrollOffset = min(scrollOffset, len(content)-visibleLines)
		scrollOffset = max(scrollOffset, 0)
	}
	endOffset := min(scrollOffset+visibleLines, len(content))

	// Copy to avoid mutating the caller's lines
	visibleContent := make([]string, endOffset-scrollOffset)
	copy(visibleContent, content[scrollOffset:endOffset])

	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorDarkGray)
	if scrollOffset > 0 {
		visibleContent[0] = dimStyle.Render("  ▲ more above")
	}
	if endOffset < len(content) {
		visibleContent[len(visibleContent)-1] = dimStyle.Render("  ▼ more below")
	}

	return strings.Join(append(header, visibleContent...), "\n")
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (m Model) renderStatusBar() string {
	var hints []string

	switch m.screen {
	case ScreenMainMenu:
		hints = []string{
			ui.KeyBinding("1-4", "Select", ui.ColorYellow),
			ui.KeyBinding("↑↓", "Navigate", ui.ColorWhite),
			ui.KeyBinding("Enter", "Select", ui.ColorGreen),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
	case ScreenRepoInput:
		hints = []string{
			ui.KeyBinding("Type", "URL", ui.ColorYellow),
			ui.KeyBinding("↑↓", "Recent", ui.ColorWhite),
			ui.KeyBinding("Enter", "Fetch", ui.ColorGreen),
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
		}
	case ScreenCommitSelect:
		hints = []string{
			ui.KeyBinding("↑↓", "Navigate", ui.ColorWhite),
			ui.KeyBinding("Enter", "Analyze", ui.ColorGreen),
		}
		if m.browser.HasMore() {
			hints = append(hints, ui.KeyBinding("m", "More", ui.ColorCyan))
		}
		hints = append(hints,
			ui.KeyBinding("o", "Open", ui.ColorBlue),
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
		)
	case ScreenManualURL, ScreenContextInput:
		hints = []string{
			ui.KeyBinding("Enter", "Continue", ui.ColorGreen),
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
		}
	case ScreenResults:
		switch m.mode {
		case modeNoteTitle, modeNoteContent:
			hints = []string{
				ui.KeyBinding("Tab", "Title/Note", ui.ColorWhite),
				ui.KeyBinding("Enter", "Save", ui.ColorGreen),
				ui.KeyBinding("Esc", "Cancel", ui.ColorYellow),
			}
		case modeChat:
			hints = []string{
				ui.KeyBinding("Enter", "Ask", ui.ColorGreen),
				ui.KeyBinding("Esc", "Done", ui.ColorYellow),
			}
		case modeTag:
			hints = []string{
				ui.KeyBinding("Enter", "Save tag", ui.ColorGreen),
				ui.KeyBinding("Esc", "Cancel", ui.ColorYellow),
			}
		default:
			hints = []string{
				ui.KeyBinding("←→", "Section", ui.ColorWhite),
				ui.KeyBinding("n", "Note", ui.ColorGreen),
				ui.KeyBinding("d", "Delete", ui.ColorRed),
				ui.KeyBinding("c", "Chat", ui.ColorBlue),
				ui.KeyBinding("t", "Tag", ui.ColorMagenta),
				ui.KeyBinding("s", "Save", ui.ColorGreen),
				ui.KeyBinding("o", "Open", ui.ColorBlue),
				ui.KeyBinding("y", "Copy URL", ui.ColorBlue),
				ui.KeyBinding("Esc", "Menu", ui.ColorYellow),
			}
		}
	case ScreenHistory:
		hints = []string{
			ui.KeyBinding("Type", "Search", ui.ColorYellow),
			ui.KeyBinding("Tab", "Repository", ui.ColorCyan),
			ui.KeyBinding("↑↓", "Navigate", ui.ColorWhite),
			ui.KeyBinding("Enter", "Open", ui.ColorGreen),
			ui.KeyBinding("^R", "Reload", ui.ColorBlue),
			ui.KeyBinding("Esc", "Back", ui.ColorYellow),
		}
	case ScreenError:
		hints = []string{
			ui.KeyBinding("Enter", "Back", ui.ColorGreen),
			ui.KeyBinding("q", "Quit", ui.ColorRed),
		}
	}

	// Don't render an empty box if there is nothing to show
	if len(hints) == 0 && m.statusMessage == "" {
		return ""
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorDarkGray).
		Padding(0, 1)

	line := strings.Join(hints, "  ")

	if m.statusMessage != "" {
		feedbackStyle := lipgloss.NewStyle().Foreground(ui.ColorGreen).Bold(true)
		if strings.HasPrefix(m.statusMessage, "✗") {
			feedbackStyle = lipgloss.NewStyle().Foreground(ui.ColorRed).Bold(true)
		}
		if line != "" {
			line += "  │  "
		}
		line += feedbackStyle.Render(m.statusMessage)
	}

	return borderStyle.Render(line)
}
