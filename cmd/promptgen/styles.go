package main

import "github.com/charmbracelet/lipgloss"

// ANSI palette indexes.
const (
	colorBlack   = lipgloss.Color("0")
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorGray    = lipgloss.Color("8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorMagenta)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
	statusStyle  = dimStyle
	noticeStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)

	badgeBaseStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorBlack)
	badgeSubmittedStyle = badgeBaseStyle.Background(colorMagenta)
	badgeCompletedStyle = badgeBaseStyle.Background(colorGreen)
	badgeFailedStyle    = badgeBaseStyle.Background(colorRed)

	errorBlockStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(colorRed).
			PaddingLeft(1)

	resultBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)
