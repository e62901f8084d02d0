package theme

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name    string        `toml:"name"`
	Base    thTOMLBase    `toml:"base"`
	Page    thTOMLPage    `toml:"page"`
	Effects thTOMLEffects `toml:"effects"`
	Help    thTOMLHelp    `toml:"help"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLPage struct {
	Title      string `toml:"title"`
	Label      string `toml:"label"`
	Card       string `toml:"card"`
	CardBorder string `toml:"card_border"`
	CardTitle  string `toml:"card_title"`
	Star       string `toml:"star"`
}

type thTOMLEffects struct {
	Trail    string `toml:"trail"`
	Blackout string `toml:"blackout"`
	Scramble string `toml:"scramble"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition. Missing colours are taken
// from the healing theme; the name is required.
func LoadFromTOML(data []byte) (Theme, error) {
	base := thHealingTheme()
	tt := thTOMLTheme{
		Base:    thTOMLBase{base.Background, base.Foreground, base.Dim, base.Accent},
		Page:    thTOMLPage{base.Title, base.Label, base.Card, base.CardBorder, base.CardTitle, base.Star},
		Effects: thTOMLEffects{base.Trail, base.Blackout, base.Scramble},
		Help:    thTOMLHelp{base.HelpKey, base.HelpDesc},
	}
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Title:      tt.Page.Title,
		Label:      tt.Page.Label,
		Card:       tt.Page.Card,
		CardBorder: tt.Page.CardBorder,
		CardTitle:  tt.Page.CardTitle,
		Star:       tt.Page.Star,

		Trail:    tt.Effects.Trail,
		Blackout: tt.Effects.Blackout,
		Scramble: tt.Effects.Scramble,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}
	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name:    t.Name,
		Base:    thTOMLBase{t.Background, t.Foreground, t.Dim, t.Accent},
		Page:    thTOMLPage{t.Title, t.Label, t.Card, t.CardBorder, t.CardTitle, t.Star},
		Effects: thTOMLEffects{t.Trail, t.Blackout, t.Scramble},
		Help:    thTOMLHelp{t.HelpKey, t.HelpDesc},
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	colors := []struct{ field, value string }{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"title", t.Title},
		{"label", t.Label},
		{"card", t.Card},
		{"card_border", t.CardBorder},
		{"card_title", t.CardTitle},
		{"star", t.Star},
		{"trail", t.Trail},
		{"blackout", t.Blackout},
		{"scramble", t.Scramble},
		{"help_key", t.HelpKey},
		{"help_desc", t.HelpDesc},
	}
	for _, c := range colors {
		if !thHexColorRegex.MatchString(c.value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", c.value, c.field)
		}
	}
	return nil
}
