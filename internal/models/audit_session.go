package models

import "strings"

// AuditSession is the analysis currently open in the results screen
type AuditSession struct {
	// Analysis is the parsed result
	Analysis AnalysisResult
	// CommitURL is the browsable URL of the audited commit
	CommitURL string
	// RepoURL is the repository the commit belongs to
	RepoURL string
	// RawJSON is the analysis exactly as returned, kept for history saves
	RawJSON string
}

// CommitSHA extracts the sha from the commit URL's "/commit/<sha>" segment
func (s AuditSession) CommitSHA() string {
	idx := strings.LastIndex(s.CommitURL, "/commit/")
	if idx < 0 {
		return ""
	}
	sha := s.CommitURL[idx+len("/commit/"):]
	if cut := strings.IndexAny(sha, "/?#"); cut >= 0 {
		sha = sha[:cut]
	}
	return sha
}

// Clone returns a deep copy of the session
func (s AuditSession) Clone() AuditSession {
	out := s
	out.Analysis = s.Analysis.Clone()
	return out
}
