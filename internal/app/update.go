package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/ingest"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Update handles all messages and updates state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10
		return m, tickCmd()

	// Task result messages
	case commitsFetchedResult:
		return m.handleCommitsFetchedResult(msg)

	case ingestResult:
		return m.handleIngestResult(msg)

	case notesLoadedResult:
		return m.handleNotesLoadedResult(msg)

	case notesSavedResult:
		return m.handleNotesSavedResult(msg)

	case chatAnsweredResult:
		return m, nil

	case tagSavedResult:
		return m.handleTagSavedResult(msg)

	case historySavedResult:
		return m.handleHistorySavedResult(msg)

	case historyLoadedResult:
		return m.handleHistoryLoadedResult(msg)
	}

	return m, nil
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear feedback on any keypress
	m.statusMessage = ""

	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.shouldQuit = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenMainMenu:
		return m.handleMainMenuKey(msg)
	case ScreenRepoInput:
		return m.handleRepoInputKey(msg)
	case ScreenCommitSelect:
		return m.handleCommitSelectKey(msg)
	case ScreenManualURL:
		return m.handleManualURLKey(msg)
	case ScreenContextInput:
		return m.handleContextInputKey(msg)
	case ScreenResults:
		return m.handleResultsKey(msg)
	case ScreenHistory:
		return m.handleHistoryKey(msg)
	case ScreenError:
		return m.handleErrorKey(msg)
	}

	return m, nil
}

// editInput applies a text editing key to value. ok is false for keys that don't edit.
func editInput(value string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyBackspace:
		if runes := []rune(value); len(runes) > 0 {
			return string(runes[:len(runes)-1]), true
		}
		return value, true
	case tea.KeySpace:
		return value + " ", true
	case tea.KeyRunes:
		return value + string(msg.Runes), true
	}
	return value, false
}

func (m Model) handleMainMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		} else {
			m.menuIndex = menuItems - 1 // Wrap to bottom
		}
	case "down", "j":
		if m.menuIndex < menuItems-1 {
			m.menuIndex++
		} else {
			m.menuIndex = 0 // Wrap to top
		}
	case "enter":
		return m.selectMainMenuItem()
	case "1", "2", "3", "4":
		m.menuIndex = int(msg.Runes[0] - '1')
		return m.selectMainMenuItem()
	}
	return m, nil
}

func (m Model) selectMainMenuItem() (tea.Model, tea.Cmd) {
	m.inputError = ""
	switch m.menuIndex {
	case 0: // Browse repository
		m.recentIndex = -1
		m.screen = ScreenRepoInput
	case 1: // Commit URL
		m.screen = ScreenManualURL
	case 2: // History
		m.screen = ScreenLoading
		m.loadingMessage = "Loading audit history..."
		return m, loadHistoryCmd(m.catalog)
	case 3: // Quit
		m.shouldQuit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleRepoInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputError = ""
		m.screen = ScreenMainMenu
		return m, nil
	case tea.KeyEnter:
		m.inputError = ""
		m.screen = ScreenLoading
		m.loadingMessage = "Fetching commits..."
		return m, fetchCommitsCmd(m.browser, m.repoInput)
	case tea.KeyDown:
		// Older recent repository
		entries := m.recents.Entries()
		if m.recentIndex < len(entries)-1 {
			m.recentIndex++
			m.repoInput = entries[m.recentIndex]
		}
		return m, nil
	case tea.KeyUp:
		entries := m.recents.Entries()
		if m.recentIndex > 0 && m.recentIndex < len(entries) {
			m.recentIndex--
			m.repoInput = entries[m.recentIndex]
		}
		return m, nil
	}

	if value, ok := editInput(m.repoInput, msg); ok {
		m.repoInput = value
		m.recentIndex = -1
		m.inputError = ""
	}
	return m, nil
}

func (m Model) handleCommitSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	commits := m.browser.Commits()

	switch msg.String() {
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	case "esc":
		m.browser.ClearSelection()
		m.screen = ScreenRepoInput
	case "up", "k":
		if m.commitIndex > 0 {
			m.commitIndex--
			m.browser.SelectIndex(m.commitIndex)
		}
	case "down", "j":
		if m.commitIndex < len(commits)-1 {
			m.commitIndex++
			m.browser.SelectIndex(m.commitIndex)
		}
	case "m":
		if m.browser.HasMore() && !m.browser.Loading() {
			return m, loadMoreCmd(m.browser)
		}
	case "o":
		if commit, ok := m.browser.Selected(); ok {
			if err := openURL(models.CommitURL(m.browser.RepoURL(), commit.SHA)); err != nil {
				m.statusMessage = "✗ Failed to open browser"
			}
		}
	case "enter":
		m.selection = ingest.Selection{Mode: ingest.ModeSelected, RepoURL: m.browser.RepoURL()}
		if commit, ok := m.browser.Selected(); ok {
			m.selection.Commit = &commit
		}
		m.returnScreen = ScreenCommitSelect
		m.inputError = ""
		m.screen = ScreenContextInput
	}
	return m, nil
}

func (m Model) handleManualURLKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputError = ""
		m.screen = ScreenMainMenu
		return m, nil
	case tea.KeyEnter:
		m.selection = ingest.Selection{Mode: ingest.ModeManual, CommitURL: m.manualURL}
		m.returnScreen = ScreenManualURL
		m.inputError = ""
		m.screen = ScreenContextInput
		return m, nil
	}

	if value, ok := editInput(m.manualURL, msg); ok {
		m.manualURL = value
		m.inputError = ""
	}
	return m, nil
}

func (m Model) handleContextInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputError = ""
		m.screen = m.returnScreen
		return m, nil
	case tea.KeyEnter:
		sel := m.selection
		sel.ChatLog = m.chatLogInput
		m.inputError = ""
		m.screen = ScreenLoading
		m.loadingMessage = "Analyzing commit with AI..."
		return m, ingestCmd(m.ingestor, sel)
	}

	if value, ok := editInput(m.chatLogInput, msg); ok {
		m.chatLogInput = value
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeNoteTitle, modeNoteContent:
		return m.handleNoteInputKey(msg)
	case modeChat:
		return m.handleChatKey(msg)
	case modeTag:
		return m.handleTagKey(msg)
	}

	switch msg.String() {
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	case "esc":
		return m.leaveResults(), nil
	case "left":
		return m.switchTab((m.tab + len(models.Sections) - 1) % len(models.Sections))
	case "right", "tab":
		return m.switchTab((m.tab + 1) % len(models.Sections))
	case "1", "2", "3", "4":
		return m.switchTab(int(msg.Runes[0] - '1'))
	case "up", "k":
		if m.noteIndex > 0 {
			m.noteIndex--
		}
	case "down", "j":
		if m.noteIndex < len(m.notes.Entries())-1 {
			m.noteIndex++
		}
	case "n":
		if m.notes.Busy() {
			m.statusMessage = notesBusyMessage
			return m, nil
		}
		m.noteTitle = ""
		m.noteContent = ""
		m.mode = modeNoteTitle
	case "d":
		if m.notes.Busy() {
			m.statusMessage = notesBusyMessage
			return m, nil
		}
		if len(m.notes.Entries()) > 0 {
			return m, deleteNoteCmd(m.notes, m.noteIndex)
		}
	case "c":
		m.mode = modeChat
	case "t":
		m.tagInput = ""
		if m.savedRecord != nil {
			m.tagInput = m.savedRecord.Tag
		}
		m.mode = modeTag
	case "s":
		if m.tagger.Loading() {
			return m, nil
		}
		return m, saveRecordCmd(m.tagger, m.tagRequest(""))
	case "a":
		if m.currentSection() == models.SectionFaults && len(m.session.Analysis.Faults) > 0 {
			m.acknowledged = true
			m.logger.Info("faults acknowledged", zap.String("commit_url", m.session.CommitURL))
		}
	case "o":
		if err := openURL(m.session.CommitURL); err != nil {
			m.statusMessage = "✗ Failed to open browser"
		}
	case "y":
		if err := copyToClipboard(m.session.CommitURL); err != nil {
			m.statusMessage = "✗ Copy failed"
		} else {
			m.statusMessage = "✓ Copied URL!"
		}
	case "h":
		m = m.leaveResults()
		m.screen = ScreenLoading
		m.loadingMessage = "Loading audit history..."
		return m, loadHistoryCmd(m.catalog)
	}
	return m, nil
}

// switchTab shows another analysis section and loads its notes
func (m Model) switchTab(tab int) (tea.Model, tea.Cmd) {
	if tab < 0 || tab >= len(models.Sections) || tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.noteIndex = 0
	return m, loadNotesCmd(m.notes, m.currentSection())
}

func (m Model) handleNoteInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.noteTitle = ""
		m.noteContent = ""
		m.mode = modeBrowse
		return m, nil
	case tea.KeyTab:
		if m.mode == modeNoteTitle {
			m.mode = modeNoteContent
		} else {
			m.mode = modeNoteTitle
		}
		return m, nil
	case tea.KeyEnter:
		if m.mode == modeNoteTitle {
			m.mode = modeNoteContent
			return m, nil
		}
		if m.notes.Busy() {
			// keep the draft so Enter can be pressed again
			m.statusMessage = notesBusyMessage
			return m, nil
		}
		title, content := m.noteTitle, m.noteContent
		m.noteTitle = ""
		m.noteContent = ""
		m.mode = modeBrowse
		m.noteIndex = 0
		return m, addNoteCmd(m.notes, title, content)
	}

	if m.mode == modeNoteTitle {
		m.noteTitle, _ = editInput(m.noteTitle, msg)
	} else {
		m.noteContent, _ = editInput(m.noteContent, msg)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		question := strings.TrimSpace(m.chatInput)
		if question == "" || m.chat.Loading() {
			return m, nil
		}
		m.chatInput = ""
		return m, askCmd(m.chat, question)
	}

	m.chatInput, _ = editInput(m.chatInput, msg)
	return m, nil
}

func (m Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.tagInput = ""
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		tag := m.tagInput
		m.tagInput = ""
		m.mode = modeBrowse
		return m, saveTagCmd(m.tagger, m.tagRequest(tag))
	}

	m.tagInput, _ = editInput(m.tagInput, msg)
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.historyQuery = ""
		m.screen = ScreenMainMenu
		return m, nil
	case tea.KeyUp:
		if m.historyIndex > 0 {
			m.historyIndex--
		}
		return m, nil
	case tea.KeyDown:
		if m.historyIndex < len(m.filteredRecords())-1 {
			m.historyIndex++
		}
		return m, nil
	case tea.KeyTab:
		m.cycleHistoryRepo()
		return m, nil
	case tea.KeyCtrlR:
		m.screen = ScreenLoading
		m.loadingMessage = "Loading audit history..."
		return m, loadHistoryCmd(m.catalog)
	case tea.KeyEnter:
		record, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		if _, err := m.store.Open(record); err != nil {
			m.logger.Warn("saved analysis unreadable", zap.String("commit_sha", record.CommitSHA), zap.Error(err))
			return m.showError("Failed to parse the saved analysis data.", ScreenHistory), nil
		}
		opened, cmd := m.openResults()
		opened.savedRecord = &record
		return opened, cmd
	}

	// Type to filter
	if value, ok := editInput(m.historyQuery, msg); ok {
		m.historyQuery = value
		m.historyIndex = 0
	}
	return m, nil
}

func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.errorMessage = ""
		m.screen = m.errorReturn
	case "q":
		m.shouldQuit = true
		return m, tea.Quit
	}
	return m, nil
}
