package receipt

import (
	"fmt"
	"strings"
)

// A4 page dimensions in monospace cells, sized for 12pt Courier with the
// margins the spooler applies.
const (
	pageWidth = 64
	pageLines = 60
)

// RenderA4 lays jobs out as plain-text pages separated by form feeds, the
// format the print spooler hands to the system printer. An empty job still
// produces a blank page so a two-page job keeps its page order.
func RenderA4(jobs ...Job) []byte {
	var sb strings.Builder
	for i, job := range jobs {
		if i > 0 {
			sb.WriteByte('\f')
		}
		writePage(&sb, job)
	}
	return []byte(sb.String())
}

func writePage(sb *strings.Builder, job Job) {
	if job.Title == "" && len(job.Items) == 0 {
		return
	}

	n := 0
	line := func(s string) {
		if n >= pageLines {
			return
		}
		sb.WriteString(strings.TrimRight(s, " "))
		sb.WriteByte('\n')
		n++
	}
	center := func(s string) {
		t := strings.TrimSpace(s)
		pad := (pageWidth - len([]rune(t))) / 2
		if pad < 0 {
			pad = 0
		}
		line(strings.Repeat(" ", pad) + t)
	}

	line("")
	center(strings.ToUpper(job.Title))
	line("")
	center(job.Room)
	center(job.Section)
	if job.Hint != "" {
		center(job.Hint)
	}
	line(strings.Repeat("-", pageWidth))
	line(job.DateLine)
	line("")

	for _, li := range job.Items {
		// Cancelled names already carry their marker; pages have no inverse
		// printing to add on top.
		name := li.DisplayName()
		qty := padRight(fmt.Sprintf("%dx", li.Qty), QtyWidth)
		indent := strings.Repeat(" ", QtyWidth)

		for j, part := range wrapWords(name, pageWidth-QtyWidth) {
			if j == 0 {
				line(qty + part)
			} else {
				line(indent + part)
			}
		}
		if note := strings.TrimSpace(li.Note); note != "" {
			for _, part := range wrapWords(">> "+note, pageWidth-QtyWidth) {
				line(indent + part)
			}
		}
	}
}
