package receipt

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS control sequences. Epson TM series and compatibles.
var (
	escInit       = []byte{0x1B, 0x40}             // ESC @
	escBoldOn     = []byte{0x1B, 0x45, 0x01}       // ESC E 1
	escBoldOff    = []byte{0x1B, 0x45, 0x00}       // ESC E 0
	escDoubleOn   = []byte{0x1D, 0x21, 0x11}       // GS ! double width+height
	escDoubleOff  = []byte{0x1D, 0x21, 0x00}       // GS ! normal
	escInvertOn   = []byte{0x1D, 0x42, 0x01}       // GS B 1
	escInvertOff  = []byte{0x1D, 0x42, 0x00}       // GS B 0
	escAlignLeft  = []byte{0x1B, 0x61, 0x00}       // ESC a 0
	escAlignMid   = []byte{0x1B, 0x61, 0x01}       // ESC a 1
	escCut        = []byte{0x1D, 0x56, 0x41, 0x10} // GS V A, feed then partial cut
)

// RenderESCPOS turns a job into the raw byte stream for a thermal printer.
// New and cancelled positions go into separate sections, cancelled ones
// printed inverted. Text is encoded ISO-8859-1, which covers the German
// menu vocabulary.
func RenderESCPOS(job Job) []byte {
	var buf bytes.Buffer
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

	text := func(s string) {
		b, err := enc.Bytes([]byte(s))
		if err != nil {
			b = []byte(s)
		}
		buf.Write(b)
	}

	buf.Write(escInit)

	buf.Write(escAlignMid)
	buf.Write(escBoldOn)
	buf.Write(escDoubleOn)
	text(strings.ToUpper(job.Title) + "\n")
	buf.Write(escDoubleOff)
	buf.Write(escBoldOff)

	text(job.Room + "\n")
	text(job.Section + "\n")
	if job.Hint != "" {
		buf.Write(escBoldOn)
		text(job.Hint + "\n")
		buf.Write(escBoldOff)
	}
	text(Rule() + "\n")

	buf.Write(escAlignLeft)
	text(job.DateLine + "\n\n")

	var fresh, cancelled []LineItem
	for _, li := range job.Items {
		if li.Cancelled {
			cancelled = append(cancelled, li)
		} else {
			fresh = append(fresh, li)
		}
	}

	if len(fresh) > 0 {
		buf.Write(escAlignMid)
		text(CenterLine("NEU") + "\n")
		buf.Write(escAlignLeft)
		text(Rule() + "\n")

		buf.Write(escBoldOn)
		for _, li := range fresh {
			for _, line := range li.ItemLines() {
				text(line + "\n")
			}
		}
		buf.Write(escBoldOff)
		text("\n")
	}

	if len(cancelled) > 0 {
		buf.Write(escAlignMid)
		buf.Write(escInvertOn)
		buf.Write(escBoldOn)
		text(CenterLine("STORNO") + "\n")
		buf.Write(escBoldOff)
		buf.Write(escInvertOff)

		buf.Write(escAlignLeft)
		text(Rule() + "\n")

		buf.Write(escInvertOn)
		buf.Write(escBoldOn)
		for _, li := range cancelled {
			for _, line := range li.ItemLines() {
				text(line + "\n")
			}
		}
		buf.Write(escBoldOff)
		buf.Write(escInvertOff)
		text("\n")
	}

	text("\n\n")
	buf.Write(escCut)

	return buf.Bytes()
}
