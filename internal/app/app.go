package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/browser"
	"github.com/wahlandcase/attuned.audit/internal/chat"
	"github.com/wahlandcase/attuned.audit/internal/config"
	"github.com/wahlandcase/attuned.audit/internal/git"
	"github.com/wahlandcase/attuned.audit/internal/history"
	"github.com/wahlandcase/attuned.audit/internal/ingest"
	"github.com/wahlandcase/attuned.audit/internal/models"
	"github.com/wahlandcase/attuned.audit/internal/notes"
	"github.com/wahlandcase/attuned.audit/internal/recent"
	"github.com/wahlandcase/attuned.audit/internal/state"
)

// Options are the startup choices made on the command line
type Options struct {
	DryRun bool
	// RepoURL prefills the repository input
	RepoURL string
	// Checkout is the local repository attaudit was started in, if any
	Checkout *git.Checkout
}

// Model is the main application state
type Model struct {
	// Configuration
	config *config.Config
	dryRun bool
	logger *zap.Logger

	// Components shared by every screen
	backend  api.Backend
	recents  *recent.List
	browser  *browser.Browser
	ingestor *ingest.Ingestor
	store    *state.Store
	tagger   *history.Tagger
	catalog  *history.Catalog

	// Navigation
	screen     Screen
	menuIndex  int
	shouldQuit bool

	// Repository input
	repoInput   string
	recentIndex int // -1 while typing
	inputError  string

	// Commit selection
	commitIndex int
	checkout    *git.Checkout // local repository, its HEAD is marked in the commit list

	// Submission
	manualURL    string
	chatLogInput string
	selection    ingest.Selection
	returnScreen Screen // where Esc goes from the context input

	// Results (one audit session)
	session      models.AuditSession
	notes        *notes.Manager
	chat         *chat.Session
	tab          int
	mode         resultsMode
	noteIndex    int
	noteTitle    string
	noteContent  string
	chatInput    string
	tagInput     string
	acknowledged bool
	savedRecord  *models.HistoryRecord

	// History
	records      []models.HistoryRecord
	historyQuery string
	historyRepo  int // 0 = all repositories, otherwise index+1 of historyRepos
	historyRepos []string
	historyIndex int

	// UI state
	errorMessage   string
	errorReturn    Screen
	loadingMessage string
	spinnerFrame   int
	statusMessage  string // Brief feedback, clears on next key

	// Window size
	width  int
	height int
}

// New creates a new application model
func New(cfg *config.Config, backend api.Backend, recents *recent.List, logger *zap.Logger, opts Options) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recents == nil {
		recents = recent.Open("")
	}

	store := state.NewStore()
	m := Model{
		config:      cfg,
		dryRun:      opts.DryRun,
		logger:      logger,
		backend:     backend,
		recents:     recents,
		browser:     browser.New(backend, recents, logger.Named("browser")),
		ingestor:    ingest.New(backend, store, logger.Named("ingest")),
		store:       store,
		tagger:      history.NewTagger(backend, logger.Named("history")),
		catalog:     history.NewCatalog(backend, logger.Named("history")),
		screen:      ScreenMainMenu,
		repoInput:   opts.RepoURL,
		recentIndex: -1,
		width:       80,
		height:      24,
	}

	if opts.Checkout != nil {
		m.checkout = opts.Checkout
		if m.repoInput == "" {
			m.repoInput = opts.Checkout.RepoURL
		}
	}
	if m.repoInput == "" {
		if entries := recents.Entries(); len(entries) > 0 {
			m.repoInput = entries[0]
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

// tickMsg is sent on each tick for animations
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Screen returns the active screen
func (m Model) Screen() Screen {
	return m.screen
}
