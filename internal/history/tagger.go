// Package history tags and saves audits to the backend history log and
// prepares saved records for the history screen.
package history

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Backend is the slice of the REST surface the history log needs
type Backend interface {
	ListHistory(ctx context.Context) ([]models.HistoryRecord, error)
	SaveHistory(ctx context.Context, req api.SaveHistoryRequest) (models.HistoryRecord, error)
	UpdateTag(ctx context.Context, commitSHA, tag string) (models.HistoryRecord, error)
}

// TagRequest carries everything a tag save may need. RepoURL and AnalysisJSON
// are only sent if the record has to be created.
type TagRequest struct {
	CommitSHA    string
	RepoURL      string
	AnalysisJSON string
	Tag          string
}

// Strategy is one way of persisting a tag
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req TagRequest) (models.HistoryRecord, error)
}

type patchTag struct{ backend Backend }

// PatchTag updates only the tag of an existing record
func PatchTag(backend Backend) Strategy { return patchTag{backend: backend} }

func (patchTag) Name() string { return "patch_tag" }

func (p patchTag) Attempt(ctx context.Context, req TagRequest) (models.HistoryRecord, error) {
	return p.backend.UpdateTag(ctx, req.CommitSHA, req.Tag)
}

type fullSave struct{ backend Backend }

// FullSave creates or replaces the whole record, tag included
func FullSave(backend Backend) Strategy { return fullSave{backend: backend} }

func (fullSave) Name() string { return "full_save" }

func (f fullSave) Attempt(ctx context.Context, req TagRequest) (models.HistoryRecord, error) {
	return f.backend.SaveHistory(ctx, api.SaveHistoryRequest{
		CommitSHA:    req.CommitSHA,
		RepoURL:      req.RepoURL,
		AnalysisJSON: req.AnalysisJSON,
		Tag:          req.Tag,
	})
}

// Tagger runs tag saves through an ordered list of strategies
type Tagger struct {
	backend    Backend
	strategies []Strategy
	logger     *zap.Logger

	mu      sync.Mutex
	loading bool
	state   models.OpState
	lastErr error
}

// NewTagger tries PatchTag first and falls back to FullSave
func NewTagger(backend Backend, logger *zap.Logger) *Tagger {
	return NewTaggerWithStrategies(backend, logger, PatchTag(backend), FullSave(backend))
}

// NewTaggerWithStrategies uses strategies in the given order. backend serves
// SaveRecord.
func NewTaggerWithStrategies(backend Backend, logger *zap.Logger, strategies ...Strategy) *Tagger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tagger{backend: backend, strategies: strategies, logger: logger}
}

// SaveTag persists req.Tag. The first strategy that succeeds wins; if all
// fail, the error of the last one is returned. A blank tag is a no-op that
// returns a nil record.
func (t *Tagger) SaveTag(ctx context.Context, req TagRequest) (*models.HistoryRecord, error) {
	req.Tag = strings.TrimSpace(req.Tag)
	if req.Tag == "" {
		return nil, nil
	}
	if len(t.strategies) == 0 {
		return nil, errors.New("no tag strategies configured")
	}
	if err := t.begin(); err != nil {
		return nil, err
	}

	logger := t.logger.With(zap.String("commit_sha", req.CommitSHA), zap.String("tag", req.Tag))
	var lastErr error
	for i, strategy := range t.strategies {
		record, err := strategy.Attempt(ctx, req)
		if err == nil {
			logger.Info("tag saved", zap.String("strategy", strategy.Name()))
			t.finish(nil)
			return &record, nil
		}
		lastErr = err
		if i < len(t.strategies)-1 {
			logger.Debug("tag strategy failed, falling back", zap.String("strategy", strategy.Name()), zap.Error(err))
		}
	}

	logger.Warn("tag save failed", zap.Error(lastErr))
	t.finish(lastErr)
	return nil, lastErr
}

// SaveRecord saves the whole audit, with an optional tag
func (t *Tagger) SaveRecord(ctx context.Context, req TagRequest) (*models.HistoryRecord, error) {
	if strings.TrimSpace(req.CommitSHA) == "" {
		return nil, &models.ValidationError{Field: "commitSha", Message: "There is no commit to save."}
	}
	if err := t.begin(); err != nil {
		return nil, err
	}

	req.Tag = strings.TrimSpace(req.Tag)
	record, err := FullSave(t.backend).Attempt(ctx, req)
	t.finish(err)
	if err != nil {
		t.logger.Warn("history save failed", zap.String("commit_sha", req.CommitSHA), zap.Error(err))
		return nil, err
	}
	t.logger.Info("history saved", zap.String("commit_sha", req.CommitSHA))
	return &record, nil
}

func (t *Tagger) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loading {
		return models.ErrInFlight
	}
	t.loading = true
	t.state = models.OpPending
	t.lastErr = nil
	return nil
}

func (t *Tagger) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	t.lastErr = err
	if err != nil {
		t.state = models.OpFailed
		return
	}
	t.state = models.OpSucceeded
}

func (t *Tagger) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// State returns the status of the latest save and its error, if it failed
func (t *Tagger) State() (models.OpState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.lastErr
}
