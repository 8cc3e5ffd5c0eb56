package screen

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/theme"
)

const resetStyle = "\x1b[0m"

// canvas turns s into exactly h lines of exactly w cells.
func canvas(s string, w, h int) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, h)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = fit(line, w)
	}
	return out
}

// fit pads or truncates line to w cells.
func fit(line string, w int) string {
	width := ansi.StringWidth(line)
	switch {
	case width > w:
		return ansi.Truncate(line, w, "")
	case width < w:
		return line + strings.Repeat(" ", w-width)
	default:
		return line
	}
}

// splice replaces the cells [x, x+width(seg)) of line with seg.
func splice(line string, x int, seg string) string {
	w := ansi.StringWidth(seg)
	left := ansi.Truncate(line, x, "")
	right := ansi.TruncateLeft(line, x+w, "")
	if strings.Contains(line, "\x1b") {
		return left + resetStyle + seg + resetStyle + right
	}
	return left + seg + right
}

// clip limits rect r to the w x h area.
func clip(r geom.Rect, w, h int) (x0, y0, x1, y1 int) {
	x, y, rw, rh := r.Cells()
	x0, y0 = max(x, 0), max(y, 0)
	x1, y1 = min(x+rw, w), min(y+rh, h)
	return x0, y0, x1, y1
}

// blit draws block with its top-left cell at (x, y), clipped to lines.
func blit(lines []string, width, x, y int, block string) {
	for i, row := range strings.Split(block, "\n") {
		ly := y + i
		if ly < 0 || ly >= len(lines) {
			continue
		}
		rx := x
		if rx < 0 {
			row = ansi.TruncateLeft(row, -rx, "")
			rx = 0
		}
		if rx >= width {
			continue
		}
		if rw := ansi.StringWidth(row); rx+rw > width {
			row = ansi.Truncate(row, width-rx, "")
		}
		lines[ly] = splice(lines[ly], rx, row)
	}
}

// dim recolours the cells of r, mixing the palette toward tint by amount.
func dim(lines []string, width int, r geom.Rect, colors theme.Colors, tint string, amount float64) {
	if amount <= 0 {
		return
	}
	x0, y0, x1, y1 := clip(r, width, len(lines))
	if x1 <= x0 || y1 <= y0 {
		return
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Blend(colors.Foreground, tint, amount))).
		Background(lipgloss.Color(theme.Blend(colors.Background, tint, amount)))

	for y := y0; y < y1; y++ {
		seg := ansi.Strip(ansi.Cut(lines[y], x0, x1))
		lines[y] = splice(lines[y], x0, style.Render(seg))
	}
}

// scaled shrinks r around its centre.
func scaled(r geom.Rect, scale float64) geom.Rect {
	if scale == 1 {
		return r
	}
	w, h := r.W*scale, r.H*scale
	return geom.Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}
