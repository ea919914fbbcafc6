// Package ui provides the visual styling for the buzz terminal client.
// The palette follows the Buzz app theme with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"buzz/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Color palette based on the Buzz app theme
var (
	// Dark Mode Colors (the app's native scheme)
	DarkBackgroundPrimary   = lipgloss.Color("#121212")
	DarkBackgroundSecondary = lipgloss.Color("#242424")
	DarkTextPrimary         = lipgloss.Color("#f5f5f5")
	DarkTextSecondary       = lipgloss.Color("#8a8a8a")
	DarkTextHighlighted     = lipgloss.Color("#ffc53d") // Honey
	DarkIconHighlighted     = lipgloss.Color("#ffc53d")

	// Light Mode Colors
	LightBackgroundPrimary   = lipgloss.Color("#fffdf5")
	LightBackgroundSecondary = lipgloss.Color("#f1ede0")
	LightTextPrimary         = lipgloss.Color("#1c1b17")
	LightTextSecondary       = lipgloss.Color("#8f8a7a")
	LightTextHighlighted     = lipgloss.Color("#b7791f") // Dark honey
	LightIconHighlighted     = lipgloss.Color("#d69e2e")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme
type Theme struct {
	BackgroundPrimary   lipgloss.Color
	BackgroundSecondary lipgloss.Color
	TextPrimary         lipgloss.Color
	TextSecondary       lipgloss.Color
	TextHighlighted     lipgloss.Color
	IconHighlighted     lipgloss.Color
	IsDark              bool
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		BackgroundPrimary:   DarkBackgroundPrimary,
		BackgroundSecondary: DarkBackgroundSecondary,
		TextPrimary:         DarkTextPrimary,
		TextSecondary:       DarkTextSecondary,
		TextHighlighted:     DarkTextHighlighted,
		IconHighlighted:     DarkIconHighlighted,
		IsDark:              true,
	}
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		BackgroundPrimary:   LightBackgroundPrimary,
		BackgroundSecondary: LightBackgroundSecondary,
		TextPrimary:         LightTextPrimary,
		TextSecondary:       LightTextSecondary,
		TextHighlighted:     LightTextHighlighted,
		IconHighlighted:     LightIconHighlighted,
		IsDark:              false,
	}
}

// DetectTheme guesses from COLORFGBG, defaulting to dark like the app.
func DetectTheme() Theme {
	if os.Getenv("BUZZ_DARK_MODE") == "1" {
		return DarkTheme()
	}
	// Format is usually "foreground;background"; 7 and 15 are light backgrounds.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil && (bgIdx == 7 || bgIdx == 15) {
			return LightTheme()
		}
	}
	return DarkTheme()
}

// ThemeFor resolves a configured theme name.
func ThemeFor(t config.Theme) Theme {
	switch t {
	case config.ThemeDark:
		return DarkTheme()
	case config.ThemeLight:
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	App        lipgloss.Style
	Splash     lipgloss.Style
	SplashIcon lipgloss.Style
	SplashText lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	AlertInfo  lipgloss.Style
	AlertError lipgloss.Style

	Spinner lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	input := lipgloss.NewStyle().
		Foreground(theme.TextPrimary).
		Background(theme.BackgroundSecondary).
		Padding(1, 2).
		Width(48)

	button := lipgloss.NewStyle().
		Foreground(theme.TextHighlighted).
		Bold(true).
		Padding(0, 1)

	alert := lipgloss.NewStyle().
		Foreground(theme.TextPrimary).
		Padding(1, 2).
		Width(48).
		Border(lipgloss.RoundedBorder())

	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.TextPrimary).
			Padding(2, 1),

		Splash: lipgloss.NewStyle().
			Width(52).
			Align(lipgloss.Center).
			MarginBottom(1),

		SplashIcon: lipgloss.NewStyle().
			Foreground(theme.IconHighlighted),

		SplashText: lipgloss.NewStyle().
			Foreground(theme.TextPrimary).
			Bold(true),

		Input: input,

		InputFocused: input.
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.TextHighlighted),

		Placeholder: lipgloss.NewStyle().
			Foreground(theme.TextSecondary),

		Button: button,

		ButtonFocused: button.
			Underline(true),

		ButtonDisabled: button.
			Foreground(theme.TextSecondary).
			Bold(false),

		AlertInfo: alert.
			BorderForeground(Info),

		AlertError: alert.
			BorderForeground(Destructive),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.IconHighlighted),

		Help: lipgloss.NewStyle().
			Foreground(theme.TextSecondary),

		Success: lipgloss.NewStyle().
			Foreground(theme.TextHighlighted).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// Logo renders the splash: the bee mark over the app name.
func Logo(s Styles) string {
	bee := `
   \_/
  (o.o)
 ==(_)=>
`
	return s.Splash.Render(
		s.SplashIcon.Render(strings.Trim(bee, "\n")) + "\n" + s.SplashText.Render("B U Z Z"),
	)
}
