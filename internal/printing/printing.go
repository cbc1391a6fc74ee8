// Package printing moves rendered tickets to physical printers, either as raw
// ESC/POS over TCP or as text pages dropped into a spool directory.
package printing

import (
	"context"

	"github.com/muehlenhof/pos/internal/receipt"
)

// Transport delivers one ticket to a destination. Print returns only after
// the job is handed over or has failed, so callers can sequence bookkeeping
// behind a successful delivery.
type Transport interface {
	Print(ctx context.Context, job receipt.Job) error
}
