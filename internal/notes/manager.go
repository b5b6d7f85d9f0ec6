// Package notes loads and persists the free-form notes attached to each
// section of an audit.
package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Backend stores note sections
type Backend interface {
	GetNote(ctx context.Context, commitSHA string, section models.Section) (api.Note, error)
	SaveNote(ctx context.Context, req api.SaveNoteRequest) error
}

// LoadStatus describes how the last load resolved
type LoadStatus int

const (
	LoadNone LoadStatus = iota
	// LoadFound means stored content was read
	LoadFound
	// LoadNotFound means the section has no notes yet
	LoadNotFound
	// LoadUnavailable means the backend failed; the section is shown empty
	LoadUnavailable
)

// Manager edits the notes of one commit, one section at a time
type Manager struct {
	backend   Backend
	commitSHA string
	logger    *zap.Logger

	mu         sync.Mutex
	section    models.Section
	entries    []models.NoteEntry
	kind       Kind
	loadSeq    int
	loadState  models.OpState
	loadStatus LoadStatus
	saveState  models.OpState
	saveErr    error
}

// NewManager creates a manager for commitSHA, starting on section
func NewManager(backend Backend, commitSHA string, section models.Section, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend:   backend,
		commitSHA: commitSHA,
		section:   section,
		logger:    logger.With(zap.String("commit_sha", commitSHA)),
	}
}

// Load makes section active and fetches its notes. A section that doesn't exist
// yet, or can't be fetched, loads as empty without an error.
func (m *Manager) Load(ctx context.Context, section models.Section) []models.NoteEntry {
	return m.Fetch(ctx, m.Select(section))
}

// Select makes section active with no entries and marks its load pending, so
// edits are refused until Fetch completes. It returns the load's sequence number.
func (m *Manager) Select(section models.Section) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadSeq++
	m.section = section
	m.entries = nil
	m.kind = Empty
	m.loadState = models.OpPending
	m.loadStatus = LoadNone
	return m.loadSeq
}

// Fetch reads the section chosen by the Select call that returned seq. A
// superseded seq is not fetched and leaves the newer selection alone.
func (m *Manager) Fetch(ctx context.Context, seq int) []models.NoteEntry {
	m.mu.Lock()
	if seq != m.loadSeq {
		entries := append([]models.NoteEntry(nil), m.entries...)
		m.mu.Unlock()
		return entries
	}
	section := m.section
	m.mu.Unlock()

	note, err := m.backend.GetNote(ctx, m.commitSHA, section)

	var decoded Decoded
	status := LoadFound
	switch {
	case err == nil:
		decoded = Decode(note.Content)
	case models.IsNotFound(err):
		status = LoadNotFound
	default:
		status = LoadUnavailable
		m.logger.Warn("note load failed, showing empty section", zap.String("section", string(section)), zap.Error(err))
	}
	if decoded.Kind == Legacy {
		m.logger.Info("legacy plain-text note wrapped", zap.String("section", string(section)))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.loadSeq {
		// a newer load started while this one was waiting
		return append([]models.NoteEntry(nil), m.entries...)
	}
	m.entries = decoded.Entries
	m.kind = decoded.Kind
	m.loadState = models.OpSucceeded
	if status == LoadUnavailable {
		m.loadState = models.OpFailed
	}
	m.loadStatus = status
	return append([]models.NoteEntry(nil), m.entries...)
}

// Add prepends a note and saves the section. Blank title and content is a no-op
// and reports false. While a load or save is pending nothing changes and
// ErrInFlight is returned.
func (m *Manager) Add(ctx context.Context, title, content string) (bool, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" {
		return false, nil
	}

	m.mu.Lock()
	if m.busy() {
		m.mu.Unlock()
		return false, models.ErrInFlight
	}
	entries := make([]models.NoteEntry, 0, len(m.entries)+1)
	entries = append(entries, models.NoteEntry{Title: title, Content: content})
	entries = append(entries, m.entries...)
	m.entries = entries
	section, snapshot := m.beginSave()
	m.mu.Unlock()

	return true, m.persist(ctx, section, snapshot)
}

// Delete removes the entry at index and saves the section. Like Add it returns
// ErrInFlight while a load or save is pending.
func (m *Manager) Delete(ctx context.Context, index int) error {
	m.mu.Lock()
	if m.busy() {
		m.mu.Unlock()
		return models.ErrInFlight
	}
	if index < 0 || index >= len(m.entries) {
		count := len(m.entries)
		m.mu.Unlock()
		return fmt.Errorf("note index %d out of range [0,%d)", index, count)
	}
	entries := make([]models.NoteEntry, 0, len(m.entries)-1)
	entries = append(entries, m.entries[:index]...)
	entries = append(entries, m.entries[index+1:]...)
	m.entries = entries
	section, snapshot := m.beginSave()
	m.mu.Unlock()

	return m.persist(ctx, section, snapshot)
}

// busy reports a pending load or save; m.mu must be held
func (m *Manager) busy() bool {
	return m.loadState == models.OpPending || m.saveState == models.OpPending
}

// beginSave marks a save pending and snapshots what to write; m.mu must be held
func (m *Manager) beginSave() (models.Section, []models.NoteEntry) {
	m.saveState = models.OpPending
	m.saveErr = nil
	m.kind = Structured
	return m.section, append([]models.NoteEntry(nil), m.entries...)
}

func (m *Manager) persist(ctx context.Context, section models.Section, entries []models.NoteEntry) error {
	content, err := Encode(entries)
	if err == nil {
		err = m.backend.SaveNote(ctx, api.SaveNoteRequest{
			CommitSHA: m.commitSHA,
			Content:   content,
			Section:   string(section),
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// the in-memory change stays; the user sees the failure and can retry
		m.saveState = models.OpFailed
		m.saveErr = err
		m.logger.Warn("note save failed", zap.String("section", string(section)), zap.Error(err))
		return err
	}
	m.saveState = models.OpSucceeded
	m.logger.Debug("notes saved", zap.String("section", string(section)), zap.Int("count", len(entries)))
	return nil
}

// Section returns the active section
func (m *Manager) Section() models.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.section
}

// Entries returns a copy of the active section's notes, newest first
func (m *Manager) Entries() []models.NoteEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.NoteEntry(nil), m.entries...)
}

// Kind reports how the active section's stored content was interpreted
func (m *Manager) Kind() Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind
}

// Busy reports whether a load or save is waiting on the backend. Add and
// Delete are refused until it clears.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy()
}

// LoadStatus reports how the last load resolved
func (m *Manager) LoadStatus() LoadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadStatus
}

// SaveState returns the status of the latest save and its error, if it failed
func (m *Manager) SaveState() (models.OpState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveState, m.saveErr
}
