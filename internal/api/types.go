package api

import (
	"context"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Backend is the full REST surface the client consumes
type Backend interface {
	FetchCommits(ctx context.Context, repoURL string, page int) ([]models.CommitSummary, error)
	Ingest(ctx context.Context, req IngestRequest) (IngestResponse, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	GetNote(ctx context.Context, commitSHA string, section models.Section) (Note, error)
	SaveNote(ctx context.Context, req SaveNoteRequest) error
	ListHistory(ctx context.Context) ([]models.HistoryRecord, error)
	SaveHistory(ctx context.Context, req SaveHistoryRequest) (models.HistoryRecord, error)
	UpdateTag(ctx context.Context, commitSHA, tag string) (models.HistoryRecord, error)
}

// IngestRequest asks the backend to analyze a commit
type IngestRequest struct {
	GithubURL string `json:"githubUrl"`
	AIChatLog string `json:"aiChatLog"`
}

// IngestResponse carries the analysis as a nested JSON-encoded string
type IngestResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Analysis string `json:"analysis"`
}

// ChatRequest is one question about a commit
type ChatRequest struct {
	GithubURL string `json:"githubUrl"`
	CommitSHA string `json:"commitSha"`
	Question  string `json:"question"`
	AIChatLog string `json:"aiChatLog"`
}

// ChatResponse is the assistant's answer, usually markdown
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Note is the stored form of a NoteSection. Content is JSON or legacy plain text.
type Note struct {
	ID        int64  `json:"id,omitempty"`
	CommitSHA string `json:"commitSha"`
	Section   string `json:"section,omitempty"`
	Content   string `json:"content"`
}

// SaveNoteRequest upserts a section's notes
type SaveNoteRequest struct {
	CommitSHA string `json:"commitSha"`
	Content   string `json:"content"`
	Section   string `json:"section"`
}

// SaveHistoryRequest creates or replaces a history record
type SaveHistoryRequest struct {
	CommitSHA    string `json:"commitSha"`
	RepoURL      string `json:"repoUrl"`
	AnalysisJSON string `json:"analysisJson"`
	Tag          string `json:"tag,omitempty"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
