// Package terminal identifies the terminal emulator from the environment,
// picks an inline-graphics protocol for the avatar, and reads the window
// size in cells and pixels.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermGeneric Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermVSCode
	TermAlacritty
	TermVTE // GNOME Terminal, Tilix and other VTE-based terminals
	TermTmux
	TermScreen
)

var terminalNames = [...]string{
	TermGeneric:   "generic",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermVSCode:    "vscode",
	TermAlacritty: "alacritty",
	TermVTE:       "vte",
	TermTmux:      "tmux",
	TermScreen:    "screen",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the terminal renders 24-bit colour.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermVSCode, TermAlacritty, TermVTE:
		return true
	default:
		return false
	}
}

// Env looks up an environment variable. os.Getenv satisfies it.
type Env func(string) string

// Detect identifies the terminal from environment variables, most reliable
// signal first: TERM_PROGRAM, TERM, emulator-specific variables, VTE, then
// multiplexers.
func Detect(env Env) Terminal {
	if env == nil {
		env = os.Getenv
	}

	switch strings.ToLower(env("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	case "vscode":
		return TermVSCode
	case "alacritty":
		return TermAlacritty
	case "tmux":
		return TermTmux
	}

	switch term := env("TERM"); {
	case term == "xterm-ghostty":
		return TermGhostty
	case term == "xterm-kitty":
		return TermKitty
	case strings.HasPrefix(term, "alacritty"):
		return TermAlacritty
	}

	switch {
	case env("KITTY_WINDOW_ID") != "":
		return TermKitty
	case env("ITERM_SESSION_ID") != "", env("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	case env("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case env("VTE_VERSION") != "":
		return TermVTE
	case env("TMUX") != "":
		return TermTmux
	case env("STY") != "":
		return TermScreen
	}
	return TermGeneric
}

// IsSSH reports whether the session runs over SSH.
func IsSSH(env Env) bool {
	if env == nil {
		env = os.Getenv
	}
	return env("SSH_TTY") != "" || env("SSH_CONNECTION") != "" || env("SSH_CLIENT") != ""
}

// TrueColor reports 24-bit support from the terminal or COLORTERM.
func TrueColor(t Terminal, env Env) bool {
	if env == nil {
		env = os.Getenv
	}
	if t.SupportsTrueColor() {
		return true
	}
	ct := env("COLORTERM")
	return ct == "truecolor" || ct == "24bit"
}
