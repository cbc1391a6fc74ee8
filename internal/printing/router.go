package printing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/muehlenhof/pos/internal/receipt"
	"github.com/muehlenhof/pos/pkg/logging"
)

// Router picks the transport for a department. Bar tickets and kitchen
// tickets usually go to different physical printers.
type Router struct {
	transports map[string]Transport
	logger     *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Router{transports: make(map[string]Transport), logger: logger}
}

func (r *Router) Register(dept string, t Transport) {
	r.transports[dept] = t
}

func (r *Router) Print(ctx context.Context, dept string, job receipt.Job) error {
	t, ok := r.transports[dept]
	if !ok {
		return fmt.Errorf("no printer configured for department %q", dept)
	}
	if err := t.Print(ctx, job); err != nil {
		r.logger.Error("cannot deliver ticket", "dept", dept, "error", err)
		return err
	}
	return nil
}
