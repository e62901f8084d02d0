package github

// DefaultLanguageColor is used for languages without an entry.
const DefaultLanguageColor = "#7E8590"

var languageColors = map[string]string{
	"JavaScript": "#F7DF1E",
	"TypeScript": "#3178C6",
	"Python":     "#3776AB",
	"Java":       "#B07219",
	"C++":        "#F34B7D",
	"C#":         "#239120",
	"C":          "#555555",
	"Go":         "#00ADD8",
	"Rust":       "#DEA584",
	"Ruby":       "#CC342D",
	"PHP":        "#4F5D95",
	"Swift":      "#FA7343",
	"Kotlin":     "#A97BFF",
	"Vue":        "#4FC08D",
	"HTML":       "#E34C26",
	"CSS":        "#563D7C",
	"Shell":      "#89E051",
	"Dart":       "#00B4AB",
}

// LanguageColor returns the dot colour for a repository language.
func LanguageColor(lang string) string {
	if c, ok := languageColors[lang]; ok {
		return c
	}
	return DefaultLanguageColor
}
