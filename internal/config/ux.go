package config

// Theme selects the terminal colour scheme.
type Theme string

const (
	ThemeAuto  Theme = "auto" // detect from the terminal
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ValidThemes lists all supported themes.
var ValidThemes = []Theme{ThemeAuto, ThemeLight, ThemeDark}

// Valid reports whether t is a supported theme. Empty counts as auto.
func (t Theme) Valid() bool {
	if t == "" {
		return true
	}
	for _, v := range ValidThemes {
		if t == v {
			return true
		}
	}
	return false
}

// UIConfig holds user interface configuration.
type UIConfig struct {
	Theme Theme `yaml:"theme"`
}
