package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Size is the window size in cells and, when the terminal reports it,
// pixels per cell.
type Size struct {
	Cols, Rows   int
	CellW, CellH int
}

// GetSize queries TIOCGWINSZ on stdout then stderr, falling back to 80×24.
func GetSize() Size {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if s, ok := sizeOf(f.Fd()); ok {
			return s
		}
	}
	return Size{Cols: 80, Rows: 24}
}

func sizeOf(fd uintptr) (Size, bool) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return Size{}, false
	}
	s := Size{Cols: int(ws.Col), Rows: int(ws.Row)}
	if ws.Xpixel > 0 {
		s.CellW = int(ws.Xpixel) / s.Cols
	}
	if ws.Ypixel > 0 {
		s.CellH = int(ws.Ypixel) / s.Rows
	}
	return s, true
}

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Capabilities summarises what the page can use in this session.
type Capabilities struct {
	Term        Terminal
	Protocol    GraphicsProtocol
	Size        Size
	TrueColor   bool
	SSH         bool
	Interactive bool
}

// Inspect detects everything at once. override is the configured image
// protocol ("auto" or empty to detect).
func Inspect(override string) Capabilities {
	t := Detect(os.Getenv)
	ssh := IsSSH(os.Getenv)
	return Capabilities{
		Term:        t,
		Protocol:    SelectProtocol(t, override, ssh),
		Size:        GetSize(),
		TrueColor:   TrueColor(t, os.Getenv),
		SSH:         ssh,
		Interactive: Interactive(),
	}
}
