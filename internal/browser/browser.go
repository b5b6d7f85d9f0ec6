// Package browser pages through a repository's commits and tracks the
// user's selection.
package browser

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// PageSize is fixed by the server. A shorter page means there are no more commits.
const PageSize = 10

// CommitLister fetches one page of commits
type CommitLister interface {
	FetchCommits(ctx context.Context, repoURL string, page int) ([]models.CommitSummary, error)
}

// RepoRecorder remembers repositories that were browsed successfully
type RepoRecorder interface {
	Record(repoURL string) error
}

// Browser holds the accumulated commit list for the active repository
type Browser struct {
	lister   CommitLister
	recorder RepoRecorder
	logger   *zap.Logger

	mu       sync.Mutex
	repoURL  string
	page     int
	commits  []models.CommitSummary
	selected int // -1 when nothing is selected
	hasMore  bool
	loading  bool
	state    models.OpState
	lastErr  error
}

// New creates a browser. recorder may be nil.
func New(lister CommitLister, recorder RepoRecorder, logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{lister: lister, recorder: recorder, logger: logger, selected: -1}
}

// Fetch starts over with repoURL: page 1, empty list, no selection
func (b *Browser) Fetch(ctx context.Context, repoURL string) error {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return &models.ValidationError{Field: "repoUrl", Message: "Please provide a GitHub repository URL."}
	}

	b.mu.Lock()
	if b.loading {
		b.mu.Unlock()
		return models.ErrInFlight
	}
	b.repoURL = repoURL
	b.page = 1
	b.commits = nil
	b.selected = -1
	b.hasMore = false
	b.begin()
	b.mu.Unlock()

	return b.fetchPage(ctx, repoURL, 1)
}

// LoadMore appends the next page. It does nothing when the last page was short.
func (b *Browser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if b.loading {
		b.mu.Unlock()
		return models.ErrInFlight
	}
	if b.repoURL == "" || !b.hasMore {
		b.mu.Unlock()
		return nil
	}
	repoURL, next := b.repoURL, b.page+1
	b.begin()
	b.mu.Unlock()

	return b.fetchPage(ctx, repoURL, next)
}

// begin marks a request in flight; b.mu must be held
func (b *Browser) begin() {
	b.loading = true
	b.state = models.OpPending
	b.lastErr = nil
}

func (b *Browser) fetchPage(ctx context.Context, repoURL string, page int) error {
	commits, err := b.lister.FetchCommits(ctx, repoURL, page)

	b.mu.Lock()
	b.loading = false
	if err != nil {
		b.state = models.OpFailed
		b.lastErr = err
		b.mu.Unlock()
		b.logger.Warn("commit page fetch failed", zap.String("repo", repoURL), zap.Int("page", page), zap.Error(err))
		return err
	}
	b.page = page
	b.commits = append(b.commits, commits...)
	b.hasMore = len(commits) >= PageSize
	b.state = models.OpSucceeded
	b.mu.Unlock()

	b.logger.Debug("commit page fetched",
		zap.String("repo", repoURL),
		zap.Int("page", page),
		zap.Int("count", len(commits)),
	)

	if b.recorder != nil {
		if err := b.recorder.Record(repoURL); err != nil {
			b.logger.Warn("failed to record recent repository", zap.String("repo", repoURL), zap.Error(err))
		}
	}
	return nil
}

// Select marks the commit with the given sha. Returns false if it isn't listed.
func (b *Browser) Select(sha string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.commits {
		if c.SHA == sha {
			b.selected = i
			return true
		}
	}
	return false
}

// SelectIndex marks the commit at index i of the accumulated list
func (b *Browser) SelectIndex(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.commits) {
		return false
	}
	b.selected = i
	return true
}

// ClearSelection drops the current selection
func (b *Browser) ClearSelection() {
	b.mu.Lock()
	b.selected = -1
	b.mu.Unlock()
}

// Selected returns the selected commit
func (b *Browser) Selected() (models.CommitSummary, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected < 0 {
		return models.CommitSummary{}, false
	}
	return b.commits[b.selected], true
}

// Commits returns a copy of every commit fetched so far
func (b *Browser) Commits() []models.CommitSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.CommitSummary(nil), b.commits...)
}

// RepoURL returns the active repository
func (b *Browser) RepoURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.repoURL
}

// Page returns the last page fetched successfully
func (b *Browser) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// HasMore reports whether the last page was full
func (b *Browser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasMore
}

// Loading reports whether a page request is in flight
func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// State returns the status of the latest fetch and its error, if it failed
func (b *Browser) State() (models.OpState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.lastErr
}
