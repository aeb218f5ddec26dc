package tui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 32

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	dropZoneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1).
			Width(sidebarWidth - 2)

	dropZoneActiveStyle = dropZoneStyle.
				BorderForeground(lipgloss.Color("#60A5FA"))

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			PaddingRight(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("#E5E7EB"))

	readyBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#166534")).
			Background(lipgloss.Color("#DCFCE7")).
			Padding(0, 1)

	waitingBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#854D0E")).
				Background(lipgloss.Color("#FEF9C3")).
				Padding(0, 1)

	processedFileStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#22C55E"))

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	systemBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1F2937")).
				Background(lipgloss.Color("#E5E7EB")).
				Padding(0, 1)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1F2937")).
				Background(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	documentSourceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2563EB"))

	generalSourceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#16A34A"))

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2563EB")).
			Background(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	inputDisabledStyle = inputStyle.
				BorderForeground(lipgloss.Color("#D1D5DB")).
				Foreground(lipgloss.Color("#9CA3AF"))
)
