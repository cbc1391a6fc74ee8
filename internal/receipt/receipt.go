// Package receipt lays out order tickets as fixed-width text and renders them
// for thermal (ESC/POS) and page (A4) printers.
package receipt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LineWidth is the printable width of an 80mm thermal ticket.
	LineWidth = 42
	// QtyWidth is the quantity column, "12x  " style.
	QtyWidth = 5

	nameWidth = LineWidth - QtyWidth
)

// LineItem is one position on a ticket. Cancelled lines are grouped into a
// separate STORNO section when rendered.
type LineItem struct {
	Qty       int    `json:"qty"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Note      string `json:"note,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// Job is a complete ticket ready for rendering.
type Job struct {
	Title    string     `json:"title"`
	Room     string     `json:"room"`
	Section  string     `json:"section"`
	Hint     string     `json:"hint,omitempty"`
	DateLine string     `json:"date_line"`
	Items    []LineItem `json:"items"`
}

// Build assembles a ticket for a table, stamped with the current time.
func Build(table, room, section, hint string, items []LineItem) Job {
	return BuildAt(time.Now(), table, room, section, hint, items)
}

// BuildAt is Build with an explicit timestamp.
func BuildAt(at time.Time, table, room, section, hint string, items []LineItem) Job {
	return Job{
		Title:    "Tisch " + table,
		Room:     room,
		Section:  section,
		Hint:     hint,
		DateLine: at.Format("02.01.2006  15:04"),
		Items:    items,
	}
}

// DisplayName joins name and size the way every rendering shows a position,
// "Wasser still (0,5l)".
func (li LineItem) DisplayName() string {
	if strings.TrimSpace(li.Size) == "" {
		return li.Name
	}
	return fmt.Sprintf("%s (%s)", li.Name, li.Size)
}

// ItemLines wraps one position into ticket lines. The quantity sits in the
// first line only, continuation and note lines are indented to the name
// column.
func (li LineItem) ItemLines() []string {
	qty := padRight(fmt.Sprintf("%dx", li.Qty), QtyWidth)
	indent := strings.Repeat(" ", QtyWidth)

	var out []string
	for i, part := range wrapWords(li.DisplayName(), nameWidth) {
		if i == 0 {
			out = append(out, qty+part)
		} else {
			out = append(out, indent+part)
		}
	}
	if note := strings.TrimSpace(li.Note); note != "" {
		for _, part := range wrapWords(">> "+note, nameWidth) {
			out = append(out, indent+part)
		}
	}
	return out
}

// Rule returns the full-width dashed separator.
func Rule() string {
	return strings.Repeat("-", LineWidth)
}

// CenterLine centers text within the ticket width.
func CenterLine(text string) string {
	t := strings.TrimSpace(text)
	pad := (LineWidth - len([]rune(t))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + t
}

// wrapWords breaks text into lines of at most width runes, splitting on
// whitespace. Words longer than the width get a line of their own.
func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, w := range words {
		trial := w
		if current != "" {
			trial = current + " " + w
		}
		if len([]rune(trial)) <= width {
			current = trial
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
