package github

import "time"

// Demo returns a fixed snapshot for offline use and screenshots.
func Demo(user string) *Snapshot {
	return &Snapshot{
		User: user,
		Profile: &Profile{
			Login: user,
			Bio:   "building small tools for quiet terminals",
		},
		Repos: []Repo{
			{Name: "lantern", Description: "a landing page that lives in your terminal", Language: "Go", Stars: 128, Forks: 9},
			{Name: "dotfiles", Description: "", Language: "Shell", Stars: 41, Forks: 3},
			{Name: "tidepool", Description: "tide tables as a service", Language: "Rust", Stars: 33, Forks: 2},
			{Name: "inkwell", Description: "markdown notes with backlinks", Language: "TypeScript", Stars: 17, Forks: 1},
			{Name: "moth", Description: "a tiny lisp", Language: "C", Stars: 12},
			{Name: "fieldnotes", Description: "photos, mostly of fog", Language: "HTML", Stars: 4},
		},
		FetchedAt: time.Now(),
	}
}
