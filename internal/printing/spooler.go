package printing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/muehlenhof/pos/internal/receipt"
	"github.com/muehlenhof/pos/pkg/logging"
)

// A spooled file is always the full two-page job, the bar page first and the
// kitchen page second. The department without lines stays blank so the
// printed stack keeps its station order.
const (
	SpoolPageBar     = 0
	SpoolPageKitchen = 1

	spoolPages = 2
)

// Spooler writes tickets as two-page text files into a spool directory, one
// file per job, where a system print spooler picks them up. Each instance
// serves one department and fills only its own page.
type Spooler struct {
	dir    string
	page   int
	logger *slog.Logger
}

func NewSpooler(dir string, page int, logger *slog.Logger) *Spooler {
	if logger == nil {
		logger = logging.Noop()
	}
	if page < 0 || page >= spoolPages {
		page = SpoolPageBar
	}
	return &Spooler{dir: dir, page: page, logger: logger}
}

func (s *Spooler) Print(ctx context.Context, job receipt.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create spool directory: %w", err)
	}

	pages := make([]receipt.Job, spoolPages)
	pages[s.page] = job

	name := fmt.Sprintf("bon-%s-%s.txt", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, receipt.RenderA4(pages...), 0o644); err != nil {
		return fmt.Errorf("cannot write spool file: %w", err)
	}

	s.logger.Debug("ticket spooled", "file", path)
	return nil
}
