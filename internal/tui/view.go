package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gwi.com/dalal-chat/internal/chat"
)

func (m model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Dalal 2.0"),
		" ",
		subtleStyle.Render(m.serviceURL),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		" ",
		m.renderMain(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, m.renderHelp())
}

func (m model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Upload PDFs"))
	b.WriteString("\n")

	zone := dropZoneStyle
	if m.focus == focusDropZone {
		zone = dropZoneActiveStyle
	}
	prompt := subtleStyle.Render("paste or type paths")
	if m.dropInput != "" {
		prompt = m.dropInput
	}
	if m.focus == focusDropZone {
		prompt += "▏"
	}
	b.WriteString(zone.Render("Drag & drop PDFs here\n" + prompt))
	b.WriteString("\n")

	if len(m.state.Pending) > 0 {
		b.WriteString(headingStyle.Render("Selected Files:"))
		b.WriteString("\n")
		for _, f := range m.state.Pending {
			b.WriteString(truncate(f.Name, sidebarWidth-2))
			b.WriteString("\n")
		}
		if m.state.Uploading {
			b.WriteString(subtleStyle.Render("Uploading..."))
		} else {
			b.WriteString(subtleStyle.Render("[ctrl+u] Upload"))
		}
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Processed Files"))
	b.WriteString("\n")
	if len(m.state.Status.ProcessedFiles) == 0 {
		b.WriteString(subtleStyle.Render("No files processed"))
		b.WriteString("\n")
	} else {
		for _, name := range m.state.Status.ProcessedFiles {
			b.WriteString(processedFileStyle.Render("✓ "))
			b.WriteString(truncate(name, sidebarWidth-4))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	badge := waitingBadgeStyle
	if m.state.Status.Ready {
		badge = readyBadgeStyle
	}
	b.WriteString(badge.Render("● " + chat.ReadinessLabel(m.state.Status.Ready)))

	return sidebarStyle.Height(m.bodyHeight()).Render(b.String())
}

func (m model) renderMain() string {
	width := m.mainWidth()

	lines := renderTranscript(m.state.Messages, m.state.Processing, m.frame, width)
	visible, _ := visibleLines(lines, m.transcriptHeight(), m.scroll)
	transcript := lipgloss.NewStyle().
		Width(width).
		Height(m.transcriptHeight()).
		Render(strings.Join(visible, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, transcript, m.renderInput(width))
}

func (m model) renderInput(width int) string {
	enabled := chat.InputEnabled(m.state)

	style := inputStyle
	if !enabled {
		style = inputDisabledStyle
	}

	text := m.state.Input
	if text == "" {
		text = subtleStyle.Render(chat.InputPlaceholder(m.state.Status.Ready))
	}
	if enabled && m.focus == focusChat {
		text += "▏"
	}

	return style.Width(width - 2).Render("> " + text)
}

func (m model) renderHelp() string {
	help := "tab switch focus • enter send • ctrl+u upload • pgup/pgdn scroll • esc quit"
	if m.focus == focusDropZone {
		help = "tab chat • enter select paths (empty: upload) • ctrl+u upload • esc quit"
	}
	return subtleStyle.Render(help)
}

func (m model) bodyHeight() int {
	// header, blank line, help
	h := m.height - 3
	if h < 8 {
		h = 8
	}
	return h
}

func (m model) transcriptHeight() int {
	// input box is three lines with its border
	return m.bodyHeight() - 3
}

func (m model) mainWidth() int {
	w := m.width - sidebarWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return fmt.Sprintf("%s…", string(r[:n-1]))
}
