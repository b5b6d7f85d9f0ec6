package app

// Screen represents the current view in the application
type Screen int

const (
	ScreenMainMenu Screen = iota
	ScreenRepoInput
	ScreenCommitSelect
	ScreenManualURL
	ScreenContextInput
	ScreenLoading
	ScreenResults
	ScreenHistory
	ScreenError
)

func (s Screen) String() string {
	names := []string{
		"MainMenu",
		"RepoInput",
		"CommitSelect",
		"ManualURL",
		"ContextInput",
		"Loading",
		"Results",
		"History",
		"Error",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// resultsMode is what the keyboard drives on the results screen
type resultsMode int

const (
	modeBrowse resultsMode = iota
	modeNoteTitle
	modeNoteContent
	modeChat
	modeTag
)

// menuItems is the number of main menu entries
const menuItems = 4
