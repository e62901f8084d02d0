package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinsValid(t *testing.T) {
	for _, name := range []string{"healing", "hollow"} {
		th := Get(name)
		if th.Name != name {
			t.Fatalf("Get(%q).Name = %q", name, th.Name)
		}
		if err := thValidateTheme(th); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestGetFallsBackToHealing(t *testing.T) {
	if got := Get("does-not-exist").Name; got != "healing" {
		t.Errorf("fallback = %q", got)
	}
	if got := Get("HOLLOW").Name; got != "hollow" {
		t.Errorf("lookup should be case-insensitive, got %q", got)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	orig := thHollowTheme()
	orig.Name = "hollow-copy"
	data, err := SaveToTOML(orig)
	if err != nil {
		t.Fatal(err)
	}
	got, err := LoadFromTOML(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != orig {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

func TestLoadFromTOMLPartialFillsFromHealing(t *testing.T) {
	got, err := LoadFromTOML([]byte("name = \"dusk\"\n[base]\naccent = \"#123456\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Accent != "#123456" {
		t.Errorf("Accent = %q", got.Accent)
	}
	if got.Background != thHealingTheme().Background {
		t.Errorf("Background = %q, want healing default", got.Background)
	}
}

func TestLoadFromTOMLRejects(t *testing.T) {
	cases := map[string]string{
		"missing name": "[base]\naccent = \"#123456\"\n",
		"bad hex":      "name = \"x\"\n[effects]\ntrail = \"red\"\n",
		"bad toml":     "name = ",
	}
	for name, src := range cases {
		if _, err := LoadFromTOML([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fog.toml")
	if err := os.WriteFile(path, []byte("name = \"fog\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "fog" || !Has("fog") {
		t.Errorf("resolved %q, registered %v", th.Name, Has("fog"))
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should error")
	}
	if th, err := Resolve("hollow"); err != nil || th.Name != "hollow" {
		t.Errorf("Resolve(hollow) = %q, %v", th.Name, err)
	}
}

func TestRegisterValidates(t *testing.T) {
	if err := Register(Theme{Name: "broken"}); err == nil || !strings.Contains(err.Error(), "invalid hex") {
		t.Errorf("Register = %v", err)
	}
	if Has("broken") {
		t.Error("invalid theme must not register")
	}
}
