package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("  ctrl+c: exit"))

	return b.String()
}

func renderToasts(toasts []toast) string {
	if len(toasts) == 0 {
		return ""
	}

	boxes := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := toastStyle
		if t.note.Variant == models.NotificationDestructive {
			style = destructiveStyle
		}
		body := titleStyle.Render(t.note.Title)
		if t.note.Description != "" {
			body += "\n" + t.note.Description
		}
		boxes = append(boxes, style.Width(52).Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
