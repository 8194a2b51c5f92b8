package tui

import (
	"strings"

	"github.com/matheuskafuri/newstalk/internal/session"
)

// renderTranscript lays out the conversation, oldest first, wrapped to
// width. When the result is taller than maxHeight only the tail is shown.
func renderTranscript(msgs []session.Message, width, maxHeight int) string {
	if width <= 0 {
		width = 80
	}

	var blocks []string
	for _, m := range msgs {
		blocks = append(blocks, renderMessage(m, width))
	}
	content := strings.Join(blocks, "\n\n")

	lines := strings.Split(content, "\n")
	if maxHeight > 0 && len(lines) > maxHeight {
		lines = lines[len(lines)-maxHeight:]
	}
	return strings.Join(lines, "\n")
}

func renderMessage(m session.Message, width int) string {
	switch m.Kind {
	case session.KindQuestion:
		return questionStyle.Render("you ") + questionBodyStyle.Width(width-4).Render(m.Text)
	case session.KindSummary:
		body := m.Text
		if m.Topic != "" {
			body = summaryTopicStyle.Render(m.Topic) + "\n" + body
		}
		return summaryStyle.Width(width - 2).Render(body)
	case session.KindError:
		return errorStyle.Width(width).Render("! " + m.Text)
	default:
		return answerStyle.Width(width).Render(m.Text)
	}
}

// renderMarquee shows the keyword ticker, rotated by offset and clipped to
// width.
func renderMarquee(words []string, offset, width int) string {
	if len(words) == 0 || width <= 0 {
		return ""
	}
	line := strings.Join(words, " · ") + " · "
	runes := []rune(line)
	offset = offset % len(runes)
	rotated := append(append([]rune{}, runes[offset:]...), runes[:offset]...)
	if len(rotated) > width {
		rotated = rotated[:width]
	}
	return marqueeStyle.Render(string(rotated))
}
