package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/pbuild/internal/ui/style"
)

var (
	targetPendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	targetRunningStyle = lipgloss.NewStyle().
				Foreground(style.Iris).
				Bold(true)

	targetDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	targetFailedStyle = lipgloss.NewStyle().
				Foreground(style.Red)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(style.Slate).
			MarginRight(1).
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)
)
