package shell

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := map[string]ShellType{
		"bash":          Bash,
		"/usr/bin/zsh":  Zsh,
		"-zsh":          Zsh,
		"FISH":          Fish,
		"mksh\n":        Ksh,
		"/bin/ksh93":    Ksh,
		"nu":            "",
		"":              "",
		"/usr/bin/tcsh": "",
	}
	for in, want := range tests {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectPrefersEnv(t *testing.T) {
	t.Setenv("SHELL", "/opt/homebrew/bin/fish")
	if got := Detect(); got != Fish {
		t.Errorf("Detect() = %q, want fish", got)
	}
}

func TestDetectAlwaysAnswers(t *testing.T) {
	t.Setenv("SHELL", "")
	if got := Detect(); got == "" {
		t.Error("Detect() returned empty shell")
	}
}

// balanced reports whether open and close pair up, ignoring single-quoted
// text.
func balanced(script string, open, close byte) bool {
	depth := 0
	inSingle := false
	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '\'':
			inSingle = !inSingle
		case inSingle:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0 && !inSingle
}

func TestGenerateStructure(t *testing.T) {
	opts := DefaultOptions()
	for _, sh := range All {
		script := Generate(sh, opts)
		if !strings.Contains(script, "'lantern'") {
			t.Errorf("%s: binary not quoted:\n%s", sh, script)
		}
		if !strings.Contains(script, "-card") {
			t.Errorf("%s: card command missing", sh)
		}
		if !strings.Contains(script, "LANTERN_SHOWN") {
			t.Errorf("%s: once-per-session guard missing", sh)
		}
		if strings.Contains(script, "eval $(") {
			t.Errorf("%s: unquoted eval", sh)
		}
		if sh != Fish {
			for _, p := range [][2]byte{{'{', '}'}, {'(', ')'}} {
				if !balanced(script, p[0], p[1]) {
					t.Errorf("%s: unbalanced %c%c:\n%s", sh, p[0], p[1], script)
				}
			}
		}
	}
}

func TestGenerateFishBlocksClose(t *testing.T) {
	script := Generate(Fish, DefaultOptions())
	opens := strings.Count(script, "function ") + strings.Count(script, "\nif ")
	if ends := strings.Count(script, "\nend\n"); opens != ends {
		t.Errorf("fish blocks: %d opened, %d closed:\n%s", opens, ends, script)
	}
	if !strings.Contains(script, "status is-interactive") {
		t.Error("fish card must be gated on interactive sessions")
	}
}

func TestGenerateKeybinding(t *testing.T) {
	opts := Options{BinaryPath: "lantern", Keybinding: `\C-L`}
	if s := Generate(Bash, opts); !strings.Contains(s, `bind -x '"\C-L": lantern-open'`) {
		t.Errorf("bash binding:\n%s", s)
	}
	if s := Generate(Zsh, opts); !strings.Contains(s, "zle -N _lantern_widget") || !strings.Contains(s, `bindkey '\C-L'`) {
		t.Errorf("zsh binding:\n%s", s)
	}
	if s := Generate(Fish, opts); !strings.Contains(s, `bind \cl `) {
		t.Errorf("fish binding:\n%s", s)
	}

	opts.Keybinding = ""
	for _, sh := range All {
		if s := Generate(sh, opts); strings.Contains(s, "bind") {
			t.Errorf("%s: binding emitted when disabled:\n%s", sh, s)
		}
	}
}

func TestGenerateWithoutCard(t *testing.T) {
	opts := Options{BinaryPath: "lantern"}
	for _, sh := range All {
		if s := Generate(sh, opts); strings.Contains(s, "LANTERN_SHOWN") {
			t.Errorf("%s: card shown when disabled", sh)
		}
	}
}

func TestGenerateQuotesBinaryPath(t *testing.T) {
	opts := Options{BinaryPath: "/home/o'neil/bin/lantern"}
	if s := Generate(Bash, opts); !strings.Contains(s, `'/home/o'\''neil/bin/lantern'`) {
		t.Errorf("posix quoting:\n%s", s)
	}
	if s := Generate(Fish, opts); !strings.Contains(s, `'/home/o\'neil/bin/lantern'`) {
		t.Errorf("fish quoting:\n%s", s)
	}
}

func TestGenerateUnsupported(t *testing.T) {
	s := Generate("nushell", DefaultOptions())
	if !strings.Contains(s, "unsupported shell") || strings.Contains(s, "lantern-card") {
		t.Errorf("unexpected output:\n%s", s)
	}
}
