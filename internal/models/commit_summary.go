package models

import (
	"strings"
	"time"
)

// CommitSummary is one entry of the paginated commit listing
type CommitSummary struct {
	// SHA is the full commit hash and the commit's identity
	SHA string `json:"sha"`
	// Message is the full commit message
	Message string `json:"message"`
	// AuthorName is the commit author's display name
	AuthorName string `json:"authorName"`
	// Date is the authored timestamp
	Date time.Time `json:"date"`
}

// ShortSHA returns the 7 character abbreviated hash
func (c CommitSummary) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Subject returns the first line of the commit message
func (c CommitSummary) Subject() string {
	return strings.Split(c.Message, "\n")[0]
}

// CommitURL builds "<repoBase>/commit/<sha>" from a repository URL.
// Trailing slashes and a ".git" suffix are stripped from the repository URL first.
func CommitURL(repoURL, sha string) string {
	return RepoBase(repoURL) + "/commit/" + sha
}

// RepoBase trims a repository URL to its browsable base
func RepoBase(repoURL string) string {
	base := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	base = strings.TrimSuffix(base, ".git")
	return strings.TrimRight(base, "/")
}
