package screen

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/poptui/internal/theme"
)

// Card is bordered popup content: a title, a wrapped body and a footer line.
// It fades by blending its colours toward its background.
type Card struct {
	Title  string
	Body   string
	Footer string
	Colors theme.Colors
}

// Render draws the card in exactly width x height cells.
func (c *Card) Render(width, height int, opacity float64) string {
	innerW := max(width-4, 1)  // border + padding
	innerH := max(height-2, 1) // border

	fg := c.fade(c.Colors.Foreground, opacity)
	muted := c.fade(c.Colors.Muted, opacity)
	accent := c.fade(c.Colors.Accent, opacity)
	border := c.fade(c.Colors.Border, opacity)

	var rows []string
	if c.Title != "" {
		rows = append(rows, lipgloss.NewStyle().Bold(true).Foreground(color(accent)).
			Render(ansi.Truncate(c.Title, innerW, "…")))
	}

	footer := ""
	if c.Footer != "" {
		footer = lipgloss.NewStyle().Foreground(color(muted)).
			Render(ansi.Truncate(c.Footer, innerW, "…"))
	}

	room := innerH - len(rows)
	if footer != "" {
		room--
	}
	if c.Body != "" && room > 0 {
		if len(rows) > 0 && room > 1 {
			rows = append(rows, "")
			room--
		}
		wrapped := strings.Split(lipgloss.NewStyle().Width(innerW).Render(c.Body), "\n")
		if len(wrapped) > room {
			wrapped = wrapped[:room]
			last := strings.TrimRight(wrapped[room-1], " ")
			wrapped[room-1] = ansi.Truncate(last, innerW-1, "") + "…"
		}
		rows = append(rows, wrapped...)
	}

	for len(rows) < innerH-1 || (footer == "" && len(rows) < innerH) {
		rows = append(rows, "")
	}
	if footer != "" {
		rows = append(rows, footer)
	}
	if len(rows) > innerH {
		rows = rows[:innerH]
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(border)).
		Foreground(color(fg)).
		Padding(0, 1).
		Width(width - 2)
	if c.Colors.Background != "" {
		style = style.Background(color(c.Colors.Background)).
			BorderBackground(color(c.Colors.Background))
	}

	return style.Render(strings.Join(rows, "\n"))
}

// fade moves hex toward the card's background as opacity drops.
func (c *Card) fade(hex string, opacity float64) string {
	if hex == "" || c.Colors.Background == "" {
		return hex
	}
	return theme.Blend(c.Colors.Background, hex, opacity)
}

func color(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}
