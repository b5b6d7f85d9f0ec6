package history

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

const (
	// AllRepositories is the repo filter that matches every record
	AllRepositories = "All"
	// PreviewLength is the number of summary runes shown per record
	PreviewLength = 120

	// LoadFailedMessage is shown when the history log can't be listed
	LoadFailedMessage = "Failed to load saved history. Please ensure the backend is running."

	noSummary      = "No summary available."
	invalidPreview = "Encrypted or invalid analysis format."
)

// Lister fetches saved records
type Lister interface {
	ListHistory(ctx context.Context) ([]models.HistoryRecord, error)
}

// Catalog reads the history log for display
type Catalog struct {
	lister Lister
	logger *zap.Logger
}

func NewCatalog(lister Lister, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{lister: lister, logger: logger}
}

// List returns every saved record in backend order
func (c *Catalog) List(ctx context.Context) ([]models.HistoryRecord, error) {
	records, err := c.lister.ListHistory(ctx)
	if err != nil {
		c.logger.Warn("history load failed", zap.Error(err))
		return nil, err
	}
	c.logger.Debug("history loaded", zap.Int("count", len(records)))
	return records, nil
}

// Filter keeps records of repo ("" or AllRepositories for any) whose sha, tag
// or preview summary contains query, case-insensitively
func Filter(records []models.HistoryRecord, repo, query string) []models.HistoryRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	anyRepo := repo == "" || repo == AllRepositories

	var out []models.HistoryRecord
	for _, record := range records {
		if !anyRepo && record.RepoURL != repo {
			continue
		}
		if query != "" && !matches(record, query) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matches(record models.HistoryRecord, query string) bool {
	for _, field := range []string{record.CommitSHA, record.Tag, PreviewSummary(record.AnalysisJSON)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Repositories lists the distinct repo URLs in first-seen order
func Repositories(records []models.HistoryRecord) []string {
	seen := make(map[string]bool)
	var repos []string
	for _, record := range records {
		if record.RepoURL == "" || seen[record.RepoURL] {
			continue
		}
		seen[record.RepoURL] = true
		repos = append(repos, record.RepoURL)
	}
	return repos
}

// PreviewSummary returns the start of the analysis summary
func PreviewSummary(analysisJSON string) string {
	analysis, err := models.ParseAnalysis(analysisJSON)
	if err != nil {
		return invalidPreview
	}
	summary := strings.TrimSpace(analysis.Summary)
	if summary == "" {
		return noSummary
	}
	runes := []rune(summary)
	if len(runes) <= PreviewLength {
		return summary
	}
	return string(runes[:PreviewLength]) + "..."
}

// RepoName shortens a GitHub URL to owner/repo
func RepoName(url string) string {
	if url == "" {
		return "Unknown Repo"
	}
	return strings.TrimSuffix(strings.TrimPrefix(url, "https://github.com/"), ".git")
}
