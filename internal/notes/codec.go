package notes

import (
	"encoding/json"
	"strings"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Kind tells how stored note content was interpreted
type Kind int

const (
	// Empty means nothing was stored
	Empty Kind = iota
	// Structured means the content was a JSON list of entries
	Structured
	// Legacy means the content was plain text from before notes had titles
	Legacy
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Structured:
		return "structured"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Decoded is the result of reading stored note content
type Decoded struct {
	Kind    Kind
	Entries []models.NoteEntry
}

// Decode interprets stored content. A JSON list decodes as Structured; any other
// non-empty text is wrapped as a single Legacy entry; blank content is Empty.
func Decode(raw string) Decoded {
	if strings.TrimSpace(raw) == "" {
		return Decoded{Kind: Empty}
	}

	var entries []models.NoteEntry
	if err := json.Unmarshal([]byte(raw), &entries); err == nil {
		if entries == nil {
			// "null"
			return Decoded{Kind: Empty}
		}
		return Decoded{Kind: Structured, Entries: entries}
	}

	return Decoded{Kind: Legacy, Entries: []models.NoteEntry{{Content: raw}}}
}

// Encode renders entries in the structured form. Legacy text is never written back.
func Encode(entries []models.NoteEntry) (string, error) {
	if entries == nil {
		entries = []models.NoteEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
