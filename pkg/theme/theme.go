// Package theme holds the page palettes. Two built-ins ship: "healing" for
// the normal page and "hollow" for the alternate mode. Custom themes load
// from TOML files.
package theme

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Theme is the complete colour palette for the page. Every field is a
// #RRGGBB hex string.
type Theme struct {
	Name string

	// Base colours
	Background string
	Foreground string
	Dim        string
	Accent     string

	// Page sections
	Title      string
	Label      string
	Card       string
	CardBorder string
	CardTitle  string
	Star       string

	// Effects
	Trail    string
	Blackout string
	Scramble string

	// Help and status bar
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to healing if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["healing"]
}

// Has reports whether name is registered.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) error {
	if err := thValidateTheme(t); err != nil {
		return err
	}
	thRegister(t)
	return nil
}

// Resolve returns the built-in theme called ref, or loads and registers
// the TOML theme file at path ref.
func Resolve(ref string) (Theme, error) {
	if Has(ref) {
		return Get(ref), nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %q is neither built in nor readable: %w", ref, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: load %s: %w", ref, err)
	}
	thRegister(t)
	return t, nil
}

func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
