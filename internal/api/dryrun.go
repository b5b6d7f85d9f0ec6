package api

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// dryRunCommitCount spans three pages so "load more" terminates on a short page
const dryRunCommitCount = 25

const dryRunAnalysis = `{
  "summary": "Adds retry handling to the payment webhook consumer and moves the backoff settings into configuration.",
  "technologies": ["Go", "PostgreSQL", "Exponential backoff"],
  "alternatives": [
    {"method": "Dead letter queue", "justification": "Failed events could be parked and replayed without blocking the consumer."},
    {"method": "Idempotency keys", "justification": "Retries would be safe even if the provider also redelivers."}
  ],
  "faults": [
    {"point": "Retry loop has no upper bound on total elapsed time", "risk": "A stuck provider keeps the worker busy indefinitely."},
    {"point": "Backoff jitter is not applied", "risk": "Many workers may retry in lockstep after an outage."}
  ]
}`

const dryRunAnswer = "## Short answer\n\nThe retry loop lives in `consumer.go`. It backs off **exponentially**:\n\n- first retry after 1s\n- doubles up to 30s\n\n```go\ndelay = min(delay*2, maxDelay)\n```\n"

// DryRun is an in-memory Backend used by --dry-run. It fabricates commits,
// analyses and answers, and keeps notes and history for the process lifetime.
type DryRun struct {
	// Latency simulates a slow backend
	Latency time.Duration

	mu      sync.Mutex
	notes   map[string]string
	history map[string]models.HistoryRecord
	now     func() time.Time
}

// NewDryRun creates an empty in-memory backend
func NewDryRun(latency time.Duration) *DryRun {
	return &DryRun{
		Latency: latency,
		notes:   make(map[string]string),
		history: make(map[string]models.HistoryRecord),
		now:     time.Now,
	}
}

func (d *DryRun) wait(ctx context.Context) error {
	if d.Latency <= 0 {
		return nil
	}
	select {
	case <-time.After(d.Latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchCommits returns pages of fake commits, 10 per page
func (d *DryRun) FetchCommits(ctx context.Context, repoURL string, page int) ([]models.CommitSummary, error) {
	if err := d.wait(ctx); err != nil {
		return nil, &models.FetchError{Op: "list commits", Err: err}
	}
	if !strings.Contains(repoURL, "/") {
		return nil, &models.FetchError{
			Op:         "list commits",
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid GitHub Repository URL. Please provide a URL like: https://github.com/owner/repo",
		}
	}
	if page < 1 {
		page = 1
	}

	messages := []string{
		"feat: add retry handling to webhook consumer",
		"fix: close rows after scanning invoices",
		"chore: bump dependencies",
		"refactor: extract backoff settings",
		"docs: describe payment flow",
	}

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	var commits []models.CommitSummary
	for i := (page - 1) * 10; i < page*10 && i < dryRunCommitCount; i++ {
		commits = append(commits, models.CommitSummary{
			SHA:        fakeSHA(repoURL, i),
			Message:    messages[i%len(messages)],
			AuthorName: "Dry Run",
			Date:       base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return commits, nil
}

// Ingest returns a canned analysis for any commit URL
func (d *DryRun) Ingest(ctx context.Context, req IngestRequest) (IngestResponse, error) {
	if err := d.wait(ctx); err != nil {
		return IngestResponse{}, &models.FetchError{Op: "ingest commit", Err: err}
	}
	if !strings.Contains(req.GithubURL, "/commit/") {
		return IngestResponse{}, &models.FetchError{
			Op:         "ingest commit",
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid GitHub Commit URL. Please provide a URL in the format: https://github.com/owner/repo/commit/sha",
		}
	}
	return IngestResponse{Status: "success", Message: "Commit analyzed successfully", Analysis: dryRunAnalysis}, nil
}

// Chat returns a canned markdown answer
func (d *DryRun) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := d.wait(ctx); err != nil {
		return ChatResponse{}, &models.FetchError{Op: "chat", Err: err}
	}
	return ChatResponse{Answer: dryRunAnswer}, nil
}

// GetNote returns stored notes or a 404
func (d *DryRun) GetNote(ctx context.Context, commitSHA string, section models.Section) (Note, error) {
	if err := d.wait(ctx); err != nil {
		return Note{}, &models.FetchError{Op: "load notes", Err: err}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	content, ok := d.notes[noteKey(commitSHA, string(section))]
	if !ok {
		return Note{}, &models.FetchError{Op: "load notes", StatusCode: http.StatusNotFound}
	}
	return Note{CommitSHA: commitSHA, Section: string(section), Content: content}, nil
}

// SaveNote stores notes, overwriting any previous content
func (d *DryRun) SaveNote(ctx context.Context, req SaveNoteRequest) error {
	if err := d.wait(ctx); err != nil {
		return &models.FetchError{Op: "save notes", Err: err}
	}
	if req.CommitSHA == "" {
		return &models.FetchError{Op: "save notes", StatusCode: http.StatusBadRequest}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.notes[noteKey(req.CommitSHA, req.Section)] = req.Content
	return nil
}

// ListHistory returns records newest first
func (d *DryRun) ListHistory(ctx context.Context) ([]models.HistoryRecord, error) {
	if err := d.wait(ctx); err != nil {
		return nil, &models.FetchError{Op: "list history", Err: err}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	records := make([]models.HistoryRecord, 0, len(d.history))
	for _, r := range d.history {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// SaveHistory creates or replaces a record; an empty tag keeps the old one
func (d *DryRun) SaveHistory(ctx context.Context, req SaveHistoryRequest) (models.HistoryRecord, error) {
	if err := d.wait(ctx); err != nil {
		return models.HistoryRecord{}, &models.FetchError{Op: "save history", Err: err}
	}
	if req.CommitSHA == "" || req.RepoURL == "" || req.AnalysisJSON == "" {
		return models.HistoryRecord{}, &models.FetchError{Op: "save history", StatusCode: http.StatusBadRequest}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	record, ok := d.history[req.CommitSHA]
	if !ok {
		record = models.HistoryRecord{CommitSHA: req.CommitSHA, RepoURL: req.RepoURL, CreatedAt: d.now()}
	}
	record.AnalysisJSON = req.AnalysisJSON
	if req.Tag != "" {
		record.Tag = req.Tag
	}
	d.history[req.CommitSHA] = record
	return record, nil
}

// UpdateTag sets the tag of an existing record, 404 otherwise
func (d *DryRun) UpdateTag(ctx context.Context, commitSHA, tag string) (models.HistoryRecord, error) {
	if err := d.wait(ctx); err != nil {
		return models.HistoryRecord{}, &models.FetchError{Op: "update tag", Err: err}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	record, ok := d.history[commitSHA]
	if !ok {
		return models.HistoryRecord{}, &models.FetchError{
			Op:         "update tag",
			StatusCode: http.StatusNotFound,
			Err:        errors.New("no history record"),
		}
	}
	record.Tag = tag
	d.history[commitSHA] = record
	return record, nil
}

func noteKey(commitSHA, section string) string {
	return commitSHA + "\x00" + section
}

func fakeSHA(repoURL string, i int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s#%d", repoURL, i)))
	return hex.EncodeToString(sum[:])
}

var _ Backend = (*DryRun)(nil)
