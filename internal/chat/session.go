// Package chat holds the question-and-answer transcript for the audit on the
// results screen.
package chat

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// FailureMessage is the assistant turn shown when a question can't be answered
const FailureMessage = "Sorry, I couldn't reach the assistant. Please try again."

// Backend answers questions about a commit
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error)
}

// Session is the transcript for one commit. It is not persisted.
type Session struct {
	backend   Backend
	logger    *zap.Logger
	commitURL string
	commitSHA string

	mu      sync.Mutex
	turns   []models.ChatTurn
	loading bool
	state   models.OpState
}

// NewSession starts an empty transcript about the commit in audit
func NewSession(backend Backend, audit models.AuditSession, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	sha := audit.CommitSHA()
	return &Session{
		backend:   backend,
		logger:    logger.With(zap.String("commit_sha", sha)),
		commitURL: audit.CommitURL,
		commitSHA: sha,
	}
}

// Ask sends question and appends the answer to the transcript. The question
// is appended right away; a failed call appends FailureMessage instead of an
// answer. Blank questions and questions asked while one is pending are
// ignored and report false.
func (s *Session) Ask(ctx context.Context, question string) bool {
	question = strings.TrimSpace(question)
	if question == "" {
		return false
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return false
	}
	chatLog := BuildContext(s.turns, question)
	s.turns = append(s.turns, models.ChatTurn{Role: models.RoleUser, Content: question, Raw: question})
	s.loading = true
	s.state = models.OpPending
	s.mu.Unlock()

	resp, err := s.backend.Chat(ctx, api.ChatRequest{
		GithubURL: s.commitURL,
		CommitSHA: s.commitSHA,
		Question:  question,
		AIChatLog: chatLog,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Warn("chat failed", zap.Error(err))
		s.state = models.OpFailed
		s.turns = append(s.turns, models.ChatTurn{Role: models.RoleAssistant, Content: FailureMessage})
		return true
	}
	s.state = models.OpSucceeded
	s.turns = append(s.turns, models.ChatTurn{
		Role:    models.RoleAssistant,
		Content: Render(resp.Answer),
		Raw:     resp.Answer,
	})
	return true
}

// Transcript returns a copy of the turns so far, oldest first
func (s *Session) Transcript() []models.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatTurn(nil), s.turns...)
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) State() models.OpState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset discards the transcript
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.state = models.OpIdle
}
