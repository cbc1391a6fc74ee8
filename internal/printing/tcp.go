package printing

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/muehlenhof/pos/internal/receipt"
	"github.com/muehlenhof/pos/pkg/logging"
)

const (
	// DefaultPort is the raw printing port of networked ESC/POS printers.
	DefaultPort = "9100"

	connectTimeout = 1500 * time.Millisecond
	writeTimeout   = 5 * time.Second
)

// TCPPrinter sends ESC/POS bytes to a thermal printer over a raw TCP socket.
// One connection per job, single attempt, no retry. A job counts as printed
// when the full byte stream was written without a transport error.
type TCPPrinter struct {
	addr   string
	logger *slog.Logger
}

func NewTCPPrinter(addr string, logger *slog.Logger) *TCPPrinter {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, DefaultPort)
	}
	if logger == nil {
		logger = logging.Noop()
	}
	return &TCPPrinter{addr: addr, logger: logger}
}

func (p *TCPPrinter) Print(ctx context.Context, job receipt.Job) error {
	raw := receipt.RenderESCPOS(job)

	done := make(chan error, 1)
	go func() {
		done <- p.send(ctx, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("cannot print to %s: %w", p.addr, err)
		}
		p.logger.Debug("ticket printed", "addr", p.addr, "bytes", len(raw))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cannot print to %s: %w", p.addr, ctx.Err())
	}
}

func (p *TCPPrinter) send(ctx context.Context, raw []byte) error {
	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if _, err := conn.Write(raw); err != nil {
		return err
	}
	return nil
}
