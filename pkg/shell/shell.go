// Package shell generates the startup snippet that prints the lantern card
// when an interactive shell opens and binds a key to the full page.
//
// Usage: eval "$(lantern -shell zsh)" in ~/.zshrc, or the equivalent for
// bash, fish and ksh.
package shell

import (
	"fmt"
	"strings"
)

// ShellType names a supported shell.
type ShellType string

const (
	Bash ShellType = "bash"
	Zsh  ShellType = "zsh"
	Fish ShellType = "fish"
	Ksh  ShellType = "ksh"
)

// All lists every supported shell.
var All = []ShellType{Bash, Zsh, Fish, Ksh}

// Options controls the generated snippet.
type Options struct {
	// BinaryPath is the lantern executable; "lantern" when empty.
	BinaryPath string

	// ShowCard prints the card once per interactive session.
	ShowCard bool

	// Keybinding opens the interactive page, e.g. `\el` for Alt-L. Empty
	// disables it. Fish uses its own notation and ignores the prefix style.
	Keybinding string
}

// DefaultOptions shows the card and binds Alt-L.
func DefaultOptions() Options {
	return Options{BinaryPath: "lantern", ShowCard: true, Keybinding: `\el`}
}

// Generate returns the integration snippet for sh. Unknown shells get a
// comment explaining the supported set.
func Generate(sh ShellType, opts Options) string {
	if opts.BinaryPath == "" {
		opts.BinaryPath = "lantern"
	}
	bin := quote(opts.BinaryPath)
	if sh == Fish {
		bin = quoteFish(opts.BinaryPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# lantern shell integration (%s)\n", sh)
	switch sh {
	case Bash:
		posixFunctions(&b, bin)
		if opts.ShowCard {
			b.WriteString("if [[ $- == *i* && -z \"${LANTERN_SHOWN:-}\" ]]; then\n")
			b.WriteString("  export LANTERN_SHOWN=1\n  lantern-card\nfi\n")
		}
		if opts.Keybinding != "" {
			fmt.Fprintf(&b, "bind -x '\"%s\": lantern-open'\n", opts.Keybinding)
		}
	case Zsh:
		posixFunctions(&b, bin)
		if opts.ShowCard {
			b.WriteString("if [[ -o interactive && -z \"${LANTERN_SHOWN:-}\" ]]; then\n")
			b.WriteString("  export LANTERN_SHOWN=1\n  lantern-card\nfi\n")
		}
		if opts.Keybinding != "" {
			b.WriteString("_lantern_widget() {\n  zle -I\n  lantern-open </dev/tty\n  zle reset-prompt\n}\n")
			b.WriteString("zle -N _lantern_widget\n")
			fmt.Fprintf(&b, "bindkey '%s' _lantern_widget\n", opts.Keybinding)
		}
	case Ksh:
		posixFunctions(&b, bin)
		if opts.ShowCard {
			b.WriteString("case $- in\n  (*i*)\n")
			b.WriteString("    if [ -z \"${LANTERN_SHOWN:-}\" ]; then\n")
			b.WriteString("      export LANTERN_SHOWN=1\n      lantern-card\n    fi\n    ;;\nesac\n")
		}
	case Fish:
		fmt.Fprintf(&b, "function lantern-card\n  %s -card $argv\nend\n", bin)
		fmt.Fprintf(&b, "function lantern-open\n  %s $argv\nend\n", bin)
		if opts.ShowCard {
			b.WriteString("if status is-interactive; and not set -q LANTERN_SHOWN\n")
			b.WriteString("  set -gx LANTERN_SHOWN 1\n  lantern-card\nend\n")
		}
		if opts.Keybinding != "" {
			fmt.Fprintf(&b, "bind %s 'lantern-open; commandline -f repaint'\n", fishKey(opts.Keybinding))
		}
	default:
		fmt.Fprintf(&b, "# unsupported shell %q; use one of bash, zsh, fish, ksh\n", string(sh))
	}
	return b.String()
}

func posixFunctions(b *strings.Builder, bin string) {
	fmt.Fprintf(b, "lantern-card() {\n  command %s -card \"$@\"\n}\n", bin)
	fmt.Fprintf(b, "lantern-open() {\n  command %s \"$@\"\n}\n", bin)
}

// quote single-quotes s for POSIX shells.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s for fish, where \' and \\ are the only escapes.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// fishKey rewrites readline `\C-x` as fish's `\cx`.
func fishKey(k string) string {
	if strings.HasPrefix(k, `\C-`) {
		return `\c` + strings.ToLower(strings.TrimPrefix(k, `\C-`))
	}
	return k
}
