// Package recent keeps the most recently browsed repository URLs on disk
// so they can be offered for quick selection in later sessions.
package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MaxEntries bounds the list length
const MaxEntries = 10

const fileName = "attaudit-repos.json"

// List is a most-recent-first, de-duplicated list of repository URLs
type List struct {
	mu      sync.Mutex
	path    string
	entries []string
}

// DefaultPath returns the list file inside the user config directory
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, fileName), nil
}

// Open loads the list stored at path. A missing or unreadable file yields an empty list.
// An empty path keeps the list in memory only.
func Open(path string) *List {
	l := &List{path: path}
	if path == "" {
		return l
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		return l
	}
	// insert prepends, so walk oldest first
	for i := len(stored) - 1; i >= 0; i-- {
		l.entries = insert(l.entries, stored[i])
	}
	return l
}

// Normalize trims whitespace and trailing slashes
func Normalize(repoURL string) string {
	return strings.TrimRight(strings.TrimSpace(repoURL), "/")
}

// Record moves repoURL to the front and persists the list
func (l *List) Record(repoURL string) error {
	normalized := Normalize(repoURL)
	if normalized == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = insert(l.entries, normalized)
	return l.save()
}

// Entries returns a copy of the list, most recent first
func (l *List) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *List) save() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0644)
}

// insert puts url at the front, drops any older copy, and enforces MaxEntries
func insert(entries []string, url string) []string {
	url = Normalize(url)
	if url == "" {
		return entries
	}
	out := make([]string, 0, len(entries)+1)
	out = append(out, url)
	for _, e := range entries {
		if e != url {
			out = append(out, e)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}
