package models

import "time"

// HistoryRecord is a persisted audit, keyed by commit sha
type HistoryRecord struct {
	CommitSHA    string    `json:"commitSha"`
	RepoURL      string    `json:"repoUrl"`
	AnalysisJSON string    `json:"analysisJson"`
	Tag          string    `json:"tag,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
