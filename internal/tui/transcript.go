package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gwi.com/dalal-chat/internal/chat"
)

var typingFrames = []string{"● ∙ ∙", "∙ ● ∙", "∙ ∙ ●", "∙ ● ∙"}

// renderTranscript lays out the messages for a pane of the given width and
// returns the resulting lines, oldest first. While a query is in flight a
// typing bubble follows the last message.
func renderTranscript(msgs []chat.Message, processing bool, frame, width int) []string {
	if width < 10 {
		width = 10
	}
	maxBubble := width * 8 / 10

	var blocks []string
	for _, msg := range msgs {
		blocks = append(blocks, renderMessage(msg, maxBubble, width))
	}
	if processing {
		dots := typingStyle.Render(typingFrames[frame%len(typingFrames)])
		blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Left, dots))
	}

	var lines []string
	for i, block := range blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.Split(block, "\n")...)
	}
	return lines
}

func renderMessage(msg chat.Message, maxBubble, width int) string {
	style := assistantBubbleStyle
	align := lipgloss.Left
	switch msg.Role {
	case chat.RoleUser:
		style = userBubbleStyle
		align = lipgloss.Right
	case chat.RoleSystem:
		style = systemBubbleStyle
	}

	content := msg.Content
	if msg.Role == chat.RoleAssistant && msg.Source != "" {
		content += "\n" + sourceLine(msg.Source)
	}

	// Padding counts towards the style width.
	bubbleWidth := lipgloss.Width(content) + style.GetHorizontalPadding()
	if bubbleWidth > maxBubble {
		bubbleWidth = maxBubble
	}
	bubble := style.Width(bubbleWidth).Render(content)

	return lipgloss.PlaceHorizontal(width, align, bubble)
}

func sourceLine(source string) string {
	style := generalSourceStyle
	if source == chat.SourceDocument {
		style = documentSourceStyle
	}
	return style.Render("Source: " + chat.SourceLabel(source))
}

// visibleLines returns the window of lines that fits height, scrolled up by
// scroll lines from the bottom, and the scroll value actually applied.
func visibleLines(lines []string, height, scroll int) ([]string, int) {
	if height <= 0 {
		return nil, 0
	}
	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}

	end := len(lines) - scroll
	start := end - height
	if start < 0 {
		start = 0
	}
	return lines[start:end], scroll
}
