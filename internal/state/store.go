// Package state holds the audit session handed from ingestion to the
// results screen.
package state

import (
	"sync"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Store is a single-slot holder for the active AuditSession
type Store struct {
	mu      sync.RWMutex
	session *models.AuditSession
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Set replaces the active session
func (s *Store) Set(session models.AuditSession) {
	snapshot := session.Clone()
	s.mu.Lock()
	s.session = &snapshot
	s.mu.Unlock()
}

// Get returns a copy of the active session. Mutating it does not affect the store.
func (s *Store) Get() (models.AuditSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return models.AuditSession{}, false
	}
	return s.session.Clone(), true
}

// Clear drops the active session
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// Open makes a saved history record the active session. The store is left
// untouched if the record's analysis doesn't parse.
func (s *Store) Open(record models.HistoryRecord) (models.AuditSession, error) {
	analysis, err := models.ParseAnalysis(record.AnalysisJSON)
	if err != nil {
		return models.AuditSession{}, err
	}
	session := models.AuditSession{
		Analysis:  analysis,
		CommitURL: models.CommitURL(record.RepoURL, record.CommitSHA),
		RepoURL:   record.RepoURL,
		RawJSON:   record.AnalysisJSON,
	}
	s.Set(session)
	return session, nil
}
