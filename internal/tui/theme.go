package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, true-color hex values.
// https://catppuccin.com/palette
const (
	mochaPink     lipgloss.Color = "#f5c2e7"
	mochaMauve    lipgloss.Color = "#cba6f7"
	mochaRed      lipgloss.Color = "#f38ba8"
	mochaPeach    lipgloss.Color = "#fab387"
	mochaYellow   lipgloss.Color = "#f9e2af"
	mochaGreen    lipgloss.Color = "#a6e3a1"
	mochaTeal     lipgloss.Color = "#94e2d5"
	mochaBlue     lipgloss.Color = "#89b4fa"
	mochaLavender lipgloss.Color = "#b4befe"
	mochaText     lipgloss.Color = "#cdd6f4"
	mochaSubtext  lipgloss.Color = "#a6adc8"
	mochaOverlay  lipgloss.Color = "#6c7086"
	mochaSurface  lipgloss.Color = "#313244"
	mochaBase     lipgloss.Color = "#1e1e2e"
)

// Catppuccin Latte, for light terminals.
const (
	lattePink     lipgloss.Color = "#ea76cb"
	latteMauve    lipgloss.Color = "#8839ef"
	latteRed      lipgloss.Color = "#d20f39"
	lattePeach    lipgloss.Color = "#fe640b"
	latteYellow   lipgloss.Color = "#df8e1d"
	latteGreen    lipgloss.Color = "#40a02b"
	latteTeal     lipgloss.Color = "#179299"
	latteBlue     lipgloss.Color = "#1e66f5"
	latteLavender lipgloss.Color = "#7287fd"
	latteText     lipgloss.Color = "#4c4f69"
	latteSubtext  lipgloss.Color = "#6c6f85"
	latteOverlay  lipgloss.Color = "#9ca0b0"
	latteSurface  lipgloss.Color = "#ccd0da"
	latteBase     lipgloss.Color = "#eff1f5"
)

// Theme carries the semantic colors every render function draws from.
type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Focus   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color
	Surface lipgloss.Color
	Base    lipgloss.Color
}

// ThemeByName resolves a configured theme name; unknown names fall back
// to mocha.
func ThemeByName(name string) Theme {
	switch name {
	case "latte":
		return Theme{
			Name:    "latte",
			Accent:  lattePink,
			Focus:   latteLavender,
			Success: latteGreen,
			Error:   latteRed,
			Warning: latteYellow,
			Info:    latteTeal,
			Text:    latteText,
			Subtext: latteSubtext,
			Muted:   latteOverlay,
			Surface: latteSurface,
			Base:    latteBase,
		}
	default:
		return Theme{
			Name:    "mocha",
			Accent:  mochaPink,
			Focus:   mochaLavender,
			Success: mochaGreen,
			Error:   mochaRed,
			Warning: mochaYellow,
			Info:    mochaTeal,
			Text:    mochaText,
			Subtext: mochaSubtext,
			Muted:   mochaOverlay,
			Surface: mochaSurface,
			Base:    mochaBase,
		}
	}
}
