// Package git reads the local checkout to suggest what to audit.
package git

import (
	"errors"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNoOrigin is returned when the repository has no usable origin remote
var ErrNoOrigin = errors.New("repository has no origin remote")

// Open opens the repository containing path, walking up to the git root
func Open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// OriginURL returns the browsable URL of the origin remote of the
// repository containing path
func OriginURL(path string) (string, error) {
	repo, err := Open(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", ErrNoOrigin
		}
		return "", err
	}

	urls := remote.Config().URLs
	if len(urls) == 0 || strings.TrimSpace(urls[0]) == "" {
		return "", ErrNoOrigin
	}
	return WebURL(urls[0]), nil
}

// WebURL turns a clone URL into the https URL of the repository page.
// Example: git@github.com:org/repo.git -> https://github.com/org/repo
func WebURL(remote string) string {
	url := strings.TrimSpace(remote)

	switch {
	case strings.HasPrefix(url, "ssh://"):
		url = strings.TrimPrefix(url, "ssh://")
		url = stripUser(url)
		// drop a port, ssh ports don't serve web pages
		if host, rest, ok := strings.Cut(url, "/"); ok {
			if i := strings.Index(host, ":"); i >= 0 {
				host = host[:i]
			}
			url = host + "/" + rest
		}
		url = "https://" + url
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		scheme, rest, _ := strings.Cut(url, "://")
		url = scheme + "://" + stripUser(rest)
	case strings.Contains(url, ":") && !strings.Contains(url, "://"):
		// scp-like syntax: [user@]host:path
		url = stripUser(url)
		url = "https://" + strings.Replace(url, ":", "/", 1)
	}

	url = strings.TrimRight(url, "/")
	return strings.TrimSuffix(url, ".git")
}

func stripUser(s string) string {
	host, _, _ := strings.Cut(s, "/")
	if i := strings.LastIndex(host, "@"); i >= 0 {
		return s[i+1:]
	}
	return s
}
