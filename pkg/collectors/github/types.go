// Package github collects a user's profile, avatar, and most-starred
// repositories from the GitHub REST API.
package github

import (
	"time"
)

// Placeholder copy shown when data is missing.
const (
	DefaultBio     = "A developer who loves to code"
	BioUnavailable = "Could not load bio, try refreshing"
	ReposFailed    = "Failed to load repositories, try refreshing"
	NoRepos        = "No public repositories"
	NoDescription  = "No description"
)

// MaxCards caps the number of repository cards on the page.
const MaxCards = 6

// Profile is the subset of GET /users/{user} the page shows.
type Profile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Repo is the subset of a repository listing the cards show.
type Repo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	HTMLURL     string `json:"html_url"`
	Fork        bool   `json:"fork"`
}

// Desc returns the description or the placeholder.
func (r Repo) Desc() string {
	if r.Description == "" {
		return NoDescription
	}
	return r.Description
}

// Snapshot is what one collection cycle yields. Partial failures are kept
// alongside whatever data did load so the page can degrade per section.
type Snapshot struct {
	User      string
	Profile   *Profile
	Repos     []Repo
	Avatar    []byte
	FetchedAt time.Time

	ProfileErr error
	ReposErr   error
	// Stale is set when any section came from an expired cache entry.
	Stale bool
}

// Login returns the profile login, falling back to the configured user.
func (s *Snapshot) Login() string {
	if s.Profile != nil && s.Profile.Login != "" {
		return s.Profile.Login
	}
	return s.User
}

// Bio returns the text for the bio line.
func (s *Snapshot) Bio() string {
	switch {
	case s.Profile == nil:
		return BioUnavailable
	case s.Profile.Bio == "":
		return DefaultBio
	default:
		return s.Profile.Bio
	}
}

// Notice returns the placeholder for the repository grid, or "" when
// there are cards to show.
func (s *Snapshot) Notice() string {
	switch {
	case len(s.Repos) > 0:
		return ""
	case s.ReposErr != nil:
		return ReposFailed
	default:
		return NoRepos
	}
}
