package app

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/config"
	"github.com/wahlandcase/attuned.audit/internal/git"
	"github.com/wahlandcase/attuned.audit/internal/models"
	"github.com/wahlandcase/attuned.audit/internal/notes"
	"github.com/wahlandcase/attuned.audit/internal/recent"
)

const testRepo = "https://github.com/acme/payments"

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	recents := recent.Open(filepath.Join(t.TempDir(), "recent.json"))
	return New(config.DefaultConfig(), api.NewDryRun(0), recents, zap.NewNop(), opts)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys one by one, running every command to completion
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, key := range keys {
		next, cmd := m.Update(keyMsg(key))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg := msg.(type) {
		case nil, tickMsg, tea.QuitMsg:
			return m
		case tea.BatchMsg:
			for _, c := range msg {
				m = drain(t, m, c)
			}
			return m
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m
}

// openManual drives the commit URL flow into the results screen
func openManual(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, "2", testRepo+"/commit/abc1234", "enter", "enter")
	require.Equal(t, ScreenResults, m.Screen())
	return m
}

func TestMainMenuNavigation(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "up")
	require.Equal(t, menuItems-1, m.menuIndex)
	m = press(t, m, "down")
	require.Equal(t, 0, m.menuIndex)

	m = press(t, m, "1")
	require.Equal(t, ScreenRepoInput, m.Screen())
	m = press(t, m, "esc", "4")
	require.True(t, m.shouldQuit)
}

func TestBrowseSelectAnalyze(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "1", testRepo, "enter")
	require.Equal(t, ScreenCommitSelect, m.Screen())
	commits := m.browser.Commits()
	require.Len(t, commits, 10)
	require.Equal(t, []string{testRepo}, m.recents.Entries())

	m = press(t, m, "m")
	require.Len(t, m.browser.Commits(), 20)

	m = press(t, m, "down", "enter")
	require.Equal(t, ScreenContextInput, m.Screen())

	m = press(t, m, "from", " ", "chat", "enter")
	require.Equal(t, ScreenResults, m.Screen())

	session, ok := m.store.Get()
	require.True(t, ok)
	require.Equal(t, models.CommitURL(testRepo, commits[1].SHA), session.CommitURL)
	require.Equal(t, testRepo, session.RepoURL)
	require.NotEmpty(t, session.Analysis.Faults)
	require.Equal(t, notes.LoadNotFound, m.notes.LoadStatus())
	require.Empty(t, m.chatLogInput)
}

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		screen  Screen
		message string
	}{
		{
			name:    "blank_repository",
			keys:    []string{"1", "enter"},
			screen:  ScreenRepoInput,
			message: "Please provide a GitHub repository URL.",
		},
		{
			name:    "blank_commit_url",
			keys:    []string{"2", "enter", "enter"},
			screen:  ScreenManualURL,
			message: "Please provide a GitHub Commit URL.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := press(t, newTestModel(t, Options{}), tc.keys...)
			require.Equal(t, tc.screen, m.Screen())
			require.Equal(t, tc.message, m.inputError)
			require.Contains(t, m.View(), tc.message)

			m = press(t, m, "x")
			require.Empty(t, m.inputError)
		})
	}
}

func TestBackendFailureShowsErrorScreen(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(t, m, "2", testRepo, "enter", "enter")
	require.Equal(t, ScreenError, m.Screen())
	require.Contains(t, m.errorMessage, "Invalid GitHub Commit URL")
	_, ok := m.store.Get()
	require.False(t, ok)

	m = press(t, m, "enter")
	require.Equal(t, ScreenContextInput, m.Screen())
}

func TestRecentRepositoriesCycle(t *testing.T) {
	m := newTestModel(t, Options{})
	require.NoError(t, m.recents.Record("https://github.com/acme/one"))
	require.NoError(t, m.recents.Record("https://github.com/acme/two"))

	m = press(t, m, "1", "down")
	require.Equal(t, "https://github.com/acme/two", m.repoInput)
	m = press(t, m, "down")
	require.Equal(t, "https://github.com/acme/one", m.repoInput)
	m = press(t, m, "down")
	require.Equal(t, "https://github.com/acme/one", m.repoInput)
	m = press(t, m, "up")
	require.Equal(t, "https://github.com/acme/two", m.repoInput)

	m = press(t, m, "backspace")
	require.Equal(t, -1, m.recentIndex)
	require.Equal(t, "https://github.com/acme/tw", m.repoInput)
}

func TestResultsNotesPerSection(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))

	m = press(t, m, "n", "Risk", "enter", "needs", " ", "review", "enter")
	require.Equal(t, modeBrowse, m.mode)
	require.Equal(t, []models.NoteEntry{{Title: "Risk", Content: "needs review"}}, m.notes.Entries())

	m = press(t, m, "4")
	require.Equal(t, models.SectionFaults, m.currentSection())
	require.Empty(t, m.notes.Entries())

	m = press(t, m, "1")
	require.Len(t, m.notes.Entries(), 1)

	m = press(t, m, "d")
	require.Empty(t, m.notes.Entries())
	require.Equal(t, "✓ Notes saved", m.statusMessage)
}

func TestResultsNoteEditsWaitForLoad(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))
	m = press(t, m, "n", "keep", "enter", "enter")
	require.Len(t, m.notes.Entries(), 1)

	// leave the load for the faults tab pending
	next, loadCmd := m.Update(keyMsg("4"))
	m = next.(Model)
	require.True(t, m.notes.Busy())

	next, cmd := m.Update(keyMsg("n"))
	m = next.(Model)
	require.Nil(t, cmd)
	require.Equal(t, modeBrowse, m.mode)
	require.Equal(t, notesBusyMessage, m.statusMessage)

	m = drain(t, m, loadCmd)
	require.False(t, m.notes.Busy())
	m = press(t, m, "n", "fault", "enter", "enter")
	require.Equal(t, []models.NoteEntry{{Title: "fault"}}, m.notes.Entries())

	m = press(t, m, "1")
	require.Equal(t, []models.NoteEntry{{Title: "keep"}}, m.notes.Entries())
}

func TestResultsNoteCancel(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))

	m = press(t, m, "n", "draft", "esc")
	require.Equal(t, modeBrowse, m.mode)
	require.Empty(t, m.noteTitle)
	require.Empty(t, m.notes.Entries())
}

func TestResultsChat(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))

	m = press(t, m, "c", "where", " ", "is", " ", "the", " ", "retry?", "enter")
	turns := m.chat.Transcript()
	require.Len(t, turns, 2)
	require.Equal(t, models.RoleUser, turns[0].Role)
	require.Equal(t, "where is the retry?", turns[0].Content)
	require.Equal(t, models.RoleAssistant, turns[1].Role)
	require.Contains(t, turns[1].Raw, "retry loop")
	require.Empty(t, m.chatInput)

	// Blank questions are ignored
	m = press(t, m, "enter")
	require.Len(t, m.chat.Transcript(), 2)
}

func TestResultsAcknowledgeFaults(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))

	m = press(t, m, "a")
	require.False(t, m.acknowledged)

	m = press(t, m, "4", "a")
	require.True(t, m.acknowledged)
	require.Contains(t, m.View(), "Faults acknowledged")
}

func TestTagThenReopenFromHistory(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))
	commitURL := m.session.CommitURL

	m = press(t, m, "t", "v1", "enter")
	require.NotNil(t, m.savedRecord)
	require.Equal(t, "v1", m.savedRecord.Tag)
	require.Equal(t, "abc1234", m.savedRecord.CommitSHA)

	m = press(t, m, "esc")
	require.Equal(t, ScreenMainMenu, m.Screen())
	_, ok := m.store.Get()
	require.False(t, ok)
	require.Nil(t, m.chat)

	m = press(t, m, "3")
	require.Equal(t, ScreenHistory, m.Screen())
	require.Len(t, m.filteredRecords(), 1)

	m = press(t, m, "zzz")
	require.Empty(t, m.filteredRecords())
	m = press(t, m, "backspace", "backspace", "backspace", "v1")
	require.Len(t, m.filteredRecords(), 1)

	m = press(t, m, "enter")
	require.Equal(t, ScreenResults, m.Screen())
	require.Equal(t, commitURL, m.session.CommitURL)
	require.Equal(t, testRepo, m.session.RepoURL)
	require.NotNil(t, m.savedRecord)
	require.Equal(t, "v1", m.savedRecord.Tag)
}

func TestSaveToHistory(t *testing.T) {
	m := openManual(t, newTestModel(t, Options{}))

	m = press(t, m, "s")
	require.NotNil(t, m.savedRecord)
	require.Empty(t, m.savedRecord.Tag)
	require.Equal(t, "✓ Saved to history", m.statusMessage)
}

func TestHistoryRepositoryFilter(t *testing.T) {
	m := newTestModel(t, Options{})
	m.records = []models.HistoryRecord{
		{CommitSHA: "a1", RepoURL: "https://github.com/acme/one", AnalysisJSON: `{"summary":"one"}`},
		{CommitSHA: "b2", RepoURL: "https://github.com/acme/two", AnalysisJSON: `{"summary":"two"}`},
		{CommitSHA: "c3", RepoURL: "https://github.com/acme/one", AnalysisJSON: `{"summary":"three"}`},
	}
	m.historyRepos = []string{"https://github.com/acme/one", "https://github.com/acme/two"}
	m.screen = ScreenHistory

	require.Len(t, m.filteredRecords(), 3)
	m = press(t, m, "tab")
	require.Len(t, m.filteredRecords(), 2)
	m = press(t, m, "tab")
	require.Len(t, m.filteredRecords(), 1)
	m = press(t, m, "tab")
	require.Len(t, m.filteredRecords(), 3)
}

func TestHistoryUnreadableAnalysis(t *testing.T) {
	m := newTestModel(t, Options{})
	m.records = []models.HistoryRecord{{CommitSHA: "abc", RepoURL: testRepo, AnalysisJSON: "not json"}}
	m.screen = ScreenHistory

	m = press(t, m, "enter")
	require.Equal(t, ScreenError, m.Screen())
	require.Equal(t, "Failed to parse the saved analysis data.", m.errorMessage)
	_, ok := m.store.Get()
	require.False(t, ok)

	m = press(t, m, "enter")
	require.Equal(t, ScreenHistory, m.Screen())
}

func TestCheckoutPrefillsAndMarksHead(t *testing.T) {
	head := models.CommitSummary{SHA: "unlisted"}
	m := newTestModel(t, Options{Checkout: &git.Checkout{RepoURL: testRepo, Head: head}})
	require.Equal(t, testRepo, m.repoInput)

	m = press(t, m, "1", "enter")
	require.Equal(t, ScreenCommitSelect, m.Screen())
	require.Equal(t, "unlisted", m.headSHA())

	m.browser = newTestModel(t, Options{}).browser
	require.Empty(t, m.headSHA())
}

func TestRepoFlagWins(t *testing.T) {
	m := newTestModel(t, Options{
		RepoURL:  "https://github.com/acme/flag",
		Checkout: &git.Checkout{RepoURL: testRepo},
	})
	require.Equal(t, "https://github.com/acme/flag", m.repoInput)
}

func TestEditInput(t *testing.T) {
	tests := []struct {
		name  string
		value string
		msg   tea.KeyMsg
		want  string
		ok    bool
	}{
		{name: "runes", value: "ab", msg: keyMsg("cd"), want: "abcd", ok: true},
		{name: "space", value: "ab", msg: tea.KeyMsg{Type: tea.KeySpace}, want: "ab ", ok: true},
		{name: "backspace_multibyte", value: "café", msg: keyMsg("backspace"), want: "caf", ok: true},
		{name: "backspace_empty", value: "", msg: keyMsg("backspace"), want: "", ok: true},
		{name: "arrow", value: "ab", msg: keyMsg("up"), want: "ab", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := editInput(tc.value, tc.msg)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.ok, ok)
		})
	}
}

func TestViewRendersEveryScreen(t *testing.T) {
	m := newTestModel(t, Options{DryRun: true})
	require.True(t, strings.Contains(m.View(), "DRY RUN"))

	m = openManual(t, m)
	view := m.View()
	require.Contains(t, view, "Summary")
	require.Contains(t, view, "abc1234")

	for screen := ScreenMainMenu; screen <= ScreenError; screen++ {
		m.screen = screen
		require.NotEmpty(t, m.View(), screen.String())
	}
}
