package git

import (
	"strings"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// Head returns the commit checked out in the repository containing path
func Head(path string) (models.CommitSummary, error) {
	repo, err := Open(path)
	if err != nil {
		return models.CommitSummary{}, err
	}

	ref, err := repo.Head()
	if err != nil {
		return models.CommitSummary{}, err
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return models.CommitSummary{}, err
	}

	return models.CommitSummary{
		SHA:        commit.Hash.String(),
		Message:    strings.TrimSpace(commit.Message),
		AuthorName: commit.Author.Name,
		Date:       commit.Author.When,
	}, nil
}

// Checkout describes the local repository attaudit was started in
type Checkout struct {
	// RepoURL is the browsable origin URL
	RepoURL string
	// Head is the checked out commit
	Head models.CommitSummary
}

// Detect reads the checkout containing path. ok is false outside a git
// repository or without an origin remote.
func Detect(path string) (Checkout, bool) {
	repoURL, err := OriginURL(path)
	if err != nil {
		return Checkout{}, false
	}
	head, err := Head(path)
	if err != nil {
		// an empty repository still has a useful origin
		return Checkout{RepoURL: repoURL}, true
	}
	return Checkout{RepoURL: repoURL, Head: head}, true
}
