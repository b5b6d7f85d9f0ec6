package app

import (
	"github.com/wahlandcase/attuned.audit/internal/history"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

// historyRepoFilter returns the repository the list is narrowed to
func (m Model) historyRepoFilter() string {
	if m.historyRepo <= 0 || m.historyRepo > len(m.historyRepos) {
		return history.AllRepositories
	}
	return m.historyRepos[m.historyRepo-1]
}

// filteredRecords applies the repository filter and search query
func (m Model) filteredRecords() []models.HistoryRecord {
	return history.Filter(m.records, m.historyRepoFilter(), m.historyQuery)
}

// cycleHistoryRepo moves the repository filter forward, wrapping through "All"
func (m *Model) cycleHistoryRepo() {
	m.historyRepo = (m.historyRepo + 1) % (len(m.historyRepos) + 1)
	m.historyIndex = 0
}

// selectedRecord returns the highlighted record of the filtered list
func (m Model) selectedRecord() (models.HistoryRecord, bool) {
	records := m.filteredRecords()
	if m.historyIndex < 0 || m.historyIndex >= len(records) {
		return models.HistoryRecord{}, false
	}
	return records[m.historyIndex], true
}
