package theme

func thRegisterBuiltins() {
	thRegister(thHealingTheme())
	thRegister(thHollowTheme())
}

// thHealingTheme is the soft pastel palette of the normal page.
func thHealingTheme() Theme {
	return Theme{
		Name:       "healing",
		Background: "#fdf6ec",
		Foreground: "#4a4453",
		Dim:        "#9a8fa3",
		Accent:     "#e8a0bf",

		Title:      "#b07ea8",
		Label:      "#7fb3a6",
		Card:       "#fffaf3",
		CardBorder: "#f0d9e5",
		CardTitle:  "#6d5a8c",
		Star:       "#f2b84b",

		Trail:    "#e8a0bf",
		Blackout: "#000000",
		Scramble: "#9a8fa3",

		HelpKey:  "#b07ea8",
		HelpDesc: "#9a8fa3",
	}
}

// thHollowTheme is the alternate mode: near-black, blood red and phosphor
// green.
func thHollowTheme() Theme {
	return Theme{
		Name:       "hollow",
		Background: "#0a0a0a",
		Foreground: "#b8b8b8",
		Dim:        "#4a4a4a",
		Accent:     "#ff0033",

		Title:      "#ff0033",
		Label:      "#8b0000",
		Card:       "#111111",
		CardBorder: "#330000",
		CardTitle:  "#d0d0d0",
		Star:       "#8b0000",

		Trail:    "#ff0033",
		Blackout: "#000000",
		Scramble: "#00ff41",

		HelpKey:  "#ff0033",
		HelpDesc: "#4a4a4a",
	}
}
