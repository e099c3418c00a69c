// Package tui provides the interactive terminal UI for Lexis.
package tui

import "github.com/charmbracelet/lipgloss"

// palette mirrors the colors the views use for titles, saved and learned
// words.
var (
	colorTitle   = lipgloss.Color("#FF6B6B")
	colorCurrent = lipgloss.Color("#4ecdc4")
	colorSaved   = lipgloss.Color("#ffe66d")
	colorLearned = lipgloss.Color("#a8e6cf")
	colorMuted   = lipgloss.Color("#666666")
	colorText    = lipgloss.Color("#f1faee")
	colorPanel   = lipgloss.Color("#2d3436")
	colorEdge    = lipgloss.Color("#3d5a80")
)

// Sidebar
var (
	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(colorEdge).
			Padding(1, 1)

	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1).
			MarginBottom(1)

	menuStyle        = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	menuFocusStyle   = menuStyle.Bold(true).Foreground(colorSaved).Background(colorPanel)
	menuCurrentStyle = menuStyle.Bold(true).Foreground(colorCurrent)
	accountStyle     = menuStyle.Foreground(colorLearned).Italic(true)
	hintStyle        = menuStyle.MarginTop(1)
)

// Help overlay
var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTitle).MarginBottom(1)
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCurrent).MarginTop(1)
	helpKeyStyle     = lipgloss.NewStyle().Foreground(colorSaved).Width(12)
	helpDescStyle    = lipgloss.NewStyle().Foreground(colorText)
	helpFooterStyle  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCurrent).
			Padding(1, 2).
			Width(56)
)

var contentStyle = lipgloss.NewStyle().Padding(1, 2)
