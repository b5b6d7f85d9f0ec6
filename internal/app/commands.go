package app

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/browser"
	"github.com/wahlandcase/attuned.audit/internal/chat"
	"github.com/wahlandcase/attuned.audit/internal/history"
	"github.com/wahlandcase/attuned.audit/internal/ingest"
	"github.com/wahlandcase/attuned.audit/internal/models"
	"github.com/wahlandcase/attuned.audit/internal/notes"
)

const notesBusyMessage = "Notes are still syncing, try again in a moment"

// Message types for async operations

type commitsFetchedResult struct {
	loadMore bool
	err      error
}

type ingestResult struct {
	err error
}

type notesLoadedResult struct {
	section models.Section
}

type notesSavedResult struct {
	changed bool
	err     error
}

type chatAnsweredResult struct {
	answered bool
}

type tagSavedResult struct {
	record *models.HistoryRecord
	err    error
}

type historySavedResult struct {
	record *models.HistoryRecord
	err    error
}

type historyLoadedResult struct {
	records []models.HistoryRecord
	err     error
}

// fetchCommitsCmd starts over with repoURL
func fetchCommitsCmd(b *browser.Browser, repoURL string) tea.Cmd {
	return func() tea.Msg {
		return commitsFetchedResult{err: b.Fetch(context.Background(), repoURL)}
	}
}

// loadMoreCmd appends the next page
func loadMoreCmd(b *browser.Browser) tea.Cmd {
	return func() tea.Msg {
		return commitsFetchedResult{loadMore: true, err: b.LoadMore(context.Background())}
	}
}

// ingestCmd submits sel for analysis; the session lands in the state store
func ingestCmd(i *ingest.Ingestor, sel ingest.Selection) tea.Cmd {
	return func() tea.Msg {
		_, err := i.Submit(context.Background(), sel)
		return ingestResult{err: err}
	}
}

// loadNotesCmd selects section right away so edits are refused until the
// fetch lands
func loadNotesCmd(n *notes.Manager, section models.Section) tea.Cmd {
	seq := n.Select(section)
	return func() tea.Msg {
		n.Fetch(context.Background(), seq)
		return notesLoadedResult{section: section}
	}
}

func addNoteCmd(n *notes.Manager, title, content string) tea.Cmd {
	return func() tea.Msg {
		changed, err := n.Add(context.Background(), title, content)
		return notesSavedResult{changed: changed, err: err}
	}
}

func deleteNoteCmd(n *notes.Manager, index int) tea.Cmd {
	return func() tea.Msg {
		err := n.Delete(context.Background(), index)
		return notesSavedResult{changed: err == nil, err: err}
	}
}

func askCmd(c *chat.Session, question string) tea.Cmd {
	return func() tea.Msg {
		return chatAnsweredResult{answered: c.Ask(context.Background(), question)}
	}
}

func saveTagCmd(t *history.Tagger, req history.TagRequest) tea.Cmd {
	return func() tea.Msg {
		record, err := t.SaveTag(context.Background(), req)
		return tagSavedResult{record: record, err: err}
	}
}

func saveRecordCmd(t *history.Tagger, req history.TagRequest) tea.Cmd {
	return func() tea.Msg {
		record, err := t.SaveRecord(context.Background(), req)
		return historySavedResult{record: record, err: err}
	}
}

func loadHistoryCmd(c *history.Catalog) tea.Cmd {
	return func() tea.Msg {
		records, err := c.List(context.Background())
		return historyLoadedResult{records: records, err: err}
	}
}

func (m Model) handleCommitsFetchedResult(msg commitsFetchedResult) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, models.ErrInFlight) {
		return m, nil
	}

	var validationErr *models.ValidationError
	switch {
	case errors.As(msg.err, &validationErr):
		m.screen = ScreenRepoInput
		m.inputError = validationErr.Message
		return m, nil
	case msg.err != nil && msg.loadMore:
		m.statusMessage = "✗ " + models.UserMessage(msg.err)
		return m, nil
	case msg.err != nil:
		return m.showError(models.UserMessage(msg.err), ScreenRepoInput), nil
	}

	if !msg.loadMore {
		m.commitIndex = 0
		m.browser.SelectIndex(0)
		m.recentIndex = -1
		m.repoInput = m.browser.RepoURL()
	}
	m.screen = ScreenCommitSelect
	return m, nil
}

func (m Model) handleIngestResult(msg ingestResult) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, models.ErrInFlight) {
		return m, nil
	}

	var validationErr *models.ValidationError
	if errors.As(msg.err, &validationErr) {
		m.screen = m.returnScreen
		m.inputError = validationErr.Message
		return m, nil
	}
	if msg.err != nil {
		return m.showError(models.UserMessage(msg.err), ScreenContextInput), nil
	}

	m.chatLogInput = ""
	return m.openResults()
}

func (m Model) handleNotesLoadedResult(msg notesLoadedResult) (tea.Model, tea.Cmd) {
	if m.notes == nil || msg.section != m.currentSection() {
		return m, nil
	}
	m.noteIndex = clampIndex(m.noteIndex, len(m.notes.Entries()))
	return m, nil
}

func (m Model) handleNotesSavedResult(msg notesSavedResult) (tea.Model, tea.Cmd) {
	if m.notes != nil {
		m.noteIndex = clampIndex(m.noteIndex, len(m.notes.Entries()))
	}
	switch {
	case errors.Is(msg.err, models.ErrInFlight):
		m.statusMessage = notesBusyMessage
	case msg.err != nil:
		m.statusMessage = "✗ Note not saved: " + models.UserMessage(msg.err)
	case msg.changed:
		m.statusMessage = "✓ Notes saved"
	}
	return m, nil
}

func (m Model) handleTagSavedResult(msg tagSavedResult) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, models.ErrInFlight):
	case msg.err != nil:
		m.statusMessage = "✗ Tag not saved: " + models.UserMessage(msg.err)
	case msg.record != nil:
		m.savedRecord = msg.record
		m.statusMessage = "✓ Tagged " + msg.record.Tag
	}
	return m, nil
}

func (m Model) handleHistorySavedResult(msg historySavedResult) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, models.ErrInFlight):
	case msg.err != nil:
		m.statusMessage = "✗ Not saved: " + models.UserMessage(msg.err)
	case msg.record != nil:
		m.savedRecord = msg.record
		m.statusMessage = "✓ Saved to history"
	}
	return m, nil
}

func (m Model) handleHistoryLoadedResult(msg historyLoadedResult) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.showError(history.LoadFailedMessage, ScreenMainMenu), nil
	}
	m.records = msg.records
	m.historyRepos = history.Repositories(msg.records)
	m.historyRepo = 0
	m.historyIndex = 0
	m.screen = ScreenHistory
	return m, nil
}

// openResults shows the session held by the state store
func (m Model) openResults() (Model, tea.Cmd) {
	session, ok := m.store.Get()
	if !ok {
		return m.showError("There is no analysis to show.", ScreenMainMenu), nil
	}
	if m.chat != nil {
		m.chat.Reset()
	}

	section := m.defaultSection()
	m.session = session
	m.notes = notes.NewManager(m.backend, session.CommitSHA(), section, m.logger.Named("notes"))
	m.chat = chat.NewSession(m.backend, session, m.logger.Named("chat"))
	m.tab = sectionIndex(section)
	m.mode = modeBrowse
	m.noteIndex = 0
	m.noteTitle = ""
	m.noteContent = ""
	m.chatInput = ""
	m.tagInput = ""
	m.acknowledged = false
	m.savedRecord = nil
	m.screen = ScreenResults

	m.logger.Info("audit opened", zap.String("commit_url", session.CommitURL))
	return m, loadNotesCmd(m.notes, section)
}

// leaveResults tears down the audit session
func (m Model) leaveResults() Model {
	if m.chat != nil {
		m.chat.Reset()
	}
	m.store.Clear()
	m.session = models.AuditSession{}
	m.notes = nil
	m.chat = nil
	m.mode = modeBrowse
	m.screen = ScreenMainMenu
	return m
}

func (m Model) showError(message string, back Screen) Model {
	m.errorMessage = message
	m.errorReturn = back
	m.screen = ScreenError
	return m
}

func (m Model) tagRequest(tag string) history.TagRequest {
	return history.TagRequest{
		CommitSHA:    m.session.CommitSHA(),
		RepoURL:      m.session.RepoURL,
		AnalysisJSON: m.session.RawJSON,
		Tag:          tag,
	}
}

func (m Model) defaultSection() models.Section {
	if m.config == nil {
		return models.SectionSummary
	}
	return m.config.DefaultSection()
}

func (m Model) currentSection() models.Section {
	return models.Sections[m.tab]
}

func sectionIndex(section models.Section) int {
	for i, s := range models.Sections {
		if s == section {
			return i
		}
	}
	return 0
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// openURL opens a URL in the default browser
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default: // Linux and others
		if isWSL() {
			cmd = exec.Command("explorer.exe", url)
		} else {
			cmd = exec.Command("xdg-open", url)
		}
	}

	return cmd.Start()
}

// isWSL checks if running under Windows Subsystem for Linux
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// copyToClipboard copies text to the system clipboard
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default: // Linux
		if isWSL() {
			// WSL: use clip.exe to reach Windows clipboard
			cmd = exec.Command("clip.exe")
		} else if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		}
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
