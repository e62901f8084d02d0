package terminal

import "strings"

// GraphicsProtocol identifies how the avatar is drawn.
type GraphicsProtocol int

const (
	// ProtocolHalfblocks draws two pixels per cell with ▀ and fg/bg colour.
	ProtocolHalfblocks GraphicsProtocol = iota
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
)

var protocolByName = map[string]GraphicsProtocol{
	"halfblocks": ProtocolHalfblocks,
	"kitty":      ProtocolKitty,
	"iterm2":     ProtocolITerm2,
	"sixel":      ProtocolSixel,
}

func (p GraphicsProtocol) String() string {
	for name, q := range protocolByName {
		if q == p {
			return name
		}
	}
	return "unknown"
}

// Inline reports whether the protocol writes an image escape instead of
// coloured cells.
func (p GraphicsProtocol) Inline() bool { return p != ProtocolHalfblocks }

// ParseProtocol maps a config value to a protocol. "auto", "" and unknown
// names report false.
func ParseProtocol(s string) (GraphicsProtocol, bool) {
	p, ok := protocolByName[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// SelectProtocol honours an explicit override, then forces halfblocks over
// SSH, then picks by terminal.
func SelectProtocol(t Terminal, override string, ssh bool) GraphicsProtocol {
	if p, ok := ParseProtocol(override); ok {
		return p
	}
	if ssh {
		return ProtocolHalfblocks
	}
	switch t {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	}
	return ProtocolHalfblocks
}
