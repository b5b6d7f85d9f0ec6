// Package ingest submits a commit for AI analysis and hands the parsed
// result to the state store.
package ingest

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Mode picks where the commit URL comes from
type Mode int

const (
	// ModeSelected synthesizes the URL from a listed commit and the active repository
	ModeSelected Mode = iota
	// ModeManual uses a commit URL typed by the user
	ModeManual
)

// Selection is the user's submission
type Selection struct {
	Mode Mode
	// Commit and RepoURL are used by ModeSelected
	Commit  *models.CommitSummary
	RepoURL string
	// CommitURL is used by ModeManual
	CommitURL string
	// ChatLog is optional context pasted by the user
	ChatLog string
}

// Analyzer performs the backend analysis call
type Analyzer interface {
	Ingest(ctx context.Context, req api.IngestRequest) (api.IngestResponse, error)
}

// SessionWriter receives the finished session
type SessionWriter interface {
	Set(session models.AuditSession)
}

// Ingestor runs one submission at a time
type Ingestor struct {
	analyzer Analyzer
	store    SessionWriter
	logger   *zap.Logger

	mu      sync.Mutex
	loading bool
	state   models.OpState
	lastErr error
}

// New creates an ingestor writing into store
func New(analyzer Analyzer, store SessionWriter, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{analyzer: analyzer, store: store, logger: logger}
}

// target resolves the commit URL and repository for a selection
func target(sel Selection) (commitURL, repoURL string, err error) {
	switch sel.Mode {
	case ModeSelected:
		if sel.Commit == nil || sel.Commit.SHA == "" {
			return "", "", &models.ValidationError{Field: "commit", Message: "Please select a commit to analyze."}
		}
		if strings.TrimSpace(sel.RepoURL) == "" {
			return "", "", &models.ValidationError{Field: "repoUrl", Message: "Please provide a GitHub repository URL."}
		}
		return models.CommitURL(sel.RepoURL, sel.Commit.SHA), models.RepoBase(sel.RepoURL), nil
	case ModeManual:
		commitURL = strings.TrimSpace(sel.CommitURL)
		if commitURL == "" {
			return "", "", &models.ValidationError{Field: "commitUrl", Message: "Please provide a GitHub Commit URL."}
		}
		return commitURL, repoFromCommitURL(commitURL), nil
	default:
		return "", "", &models.ValidationError{Field: "mode", Message: "Unknown submission mode."}
	}
}

// repoFromCommitURL strips the "/commit/<sha>" tail from a commit URL
func repoFromCommitURL(commitURL string) string {
	if idx := strings.LastIndex(commitURL, "/commit/"); idx >= 0 {
		return commitURL[:idx]
	}
	return commitURL
}

// Submit analyzes the selected commit. On success the session is written to the
// store and returned. Validation happens before any network call; a payload that
// doesn't parse leaves the store untouched.
func (i *Ingestor) Submit(ctx context.Context, sel Selection) (models.AuditSession, error) {
	commitURL, repoURL, err := target(sel)
	if err != nil {
		return models.AuditSession{}, err
	}

	i.mu.Lock()
	if i.loading {
		i.mu.Unlock()
		return models.AuditSession{}, models.ErrInFlight
	}
	i.loading = true
	i.state = models.OpPending
	i.lastErr = nil
	i.mu.Unlock()

	session, err := i.submit(ctx, commitURL, repoURL, sel.ChatLog)

	i.mu.Lock()
	i.loading = false
	if err != nil {
		i.state = models.OpFailed
		i.lastErr = err
	} else {
		i.state = models.OpSucceeded
	}
	i.mu.Unlock()

	return session, err
}

func (i *Ingestor) submit(ctx context.Context, commitURL, repoURL, chatLog string) (models.AuditSession, error) {
	logger := i.logger.With(zap.String("commit_url", commitURL))

	resp, err := i.analyzer.Ingest(ctx, api.IngestRequest{GithubURL: commitURL, AIChatLog: chatLog})
	if err != nil {
		logger.Warn("analysis request failed", zap.Error(err))
		return models.AuditSession{}, err
	}

	analysis, err := models.ParseAnalysis(resp.Analysis)
	if err != nil {
		logger.Error("analysis payload did not parse", zap.Error(err), zap.Int("payload_bytes", len(resp.Analysis)))
		return models.AuditSession{}, err
	}

	session := models.AuditSession{
		Analysis:  analysis,
		CommitURL: commitURL,
		RepoURL:   repoURL,
		RawJSON:   resp.Analysis,
	}
	i.store.Set(session)
	logger.Info("analysis ready",
		zap.Int("technologies", len(analysis.Technologies)),
		zap.Int("alternatives", len(analysis.Alternatives)),
		zap.Int("faults", len(analysis.Faults)),
	)
	return session, nil
}

// Loading reports whether a submission is in flight
func (i *Ingestor) Loading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loading
}

// State returns the status of the latest submission and its error, if any
func (i *Ingestor) State() (models.OpState, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state, i.lastErr
}
