package models

// Section names a tab of the results screen; notes are kept per section
type Section string

const (
	SectionSummary      Section = "summary"
	SectionTechnologies Section = "technologies"
	SectionAlternatives Section = "alternatives"
	SectionFaults       Section = "faults"
)

// Sections lists the result tabs in display order
var Sections = []Section{SectionSummary, SectionTechnologies, SectionAlternatives, SectionFaults}

// ParseSection matches name against the known sections
func ParseSection(name string) (Section, bool) {
	for _, section := range Sections {
		if string(section) == name {
			return section, true
		}
	}
	return "", false
}

// Title returns the tab label
func (s Section) Title() string {
	switch s {
	case SectionSummary:
		return "Summary"
	case SectionTechnologies:
		return "Technologies"
	case SectionAlternatives:
		return "Alternatives"
	case SectionFaults:
		return "Faults"
	default:
		return string(s)
	}
}

// NoteEntry is a single note attached to a section. Title is optional.
type NoteEntry struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}
