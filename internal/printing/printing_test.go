package printing

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muehlenhof/pos/internal/receipt"
)

func testJob() receipt.Job {
	at := time.Date(2026, 2, 13, 1, 23, 0, 0, time.Local)
	return receipt.BuildAt(at, "7", "Saal", "THEKE / GETRÄNKE", "", []receipt.LineItem{
		{Qty: 2, Name: "Cola"},
	})
}

func TestTCPPrinter(t *testing.T) {
	t.Run("writesRenderedBytes", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("cannot listen: %v", err)
		}
		defer ln.Close()

		received := make(chan []byte, 1)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			raw, _ := io.ReadAll(conn)
			received <- raw
		}()

		p := NewTCPPrinter(ln.Addr().String(), nil)
		if err := p.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}

		select {
		case raw := <-received:
			want := receipt.RenderESCPOS(testJob())
			if !bytes.Equal(raw, want) {
				t.Errorf("printer received %d bytes, want %d", len(raw), len(want))
			}
		case <-time.After(2 * time.Second):
			t.Fatal("printer never received the job")
		}
	})

	t.Run("unreachablePrinterFails", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("cannot listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close()

		p := NewTCPPrinter(addr, nil)
		if err := p.Print(context.Background(), testJob()); err == nil {
			t.Error("Print() to closed port did not fail")
		}
	})

	t.Run("bareHostGetsRawPort", func(t *testing.T) {
		p := NewTCPPrinter("192.168.1.50", nil)
		if p.addr != "192.168.1.50:9100" {
			t.Errorf("addr = %q, want %q", p.addr, "192.168.1.50:9100")
		}
	})
}

func TestSpooler(t *testing.T) {
	t.Run("writesOneFilePerJob", func(t *testing.T) {
		dir := t.TempDir()
		s := NewSpooler(dir, SpoolPageBar, nil)

		if err := s.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if err := s.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("cannot read spool dir: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("spool dir holds %d files, want 2", len(entries))
		}

		raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		if err != nil {
			t.Fatalf("cannot read spool file: %v", err)
		}
		if !bytes.Contains(raw, []byte("Cola")) {
			t.Error("spool file misses the ticket item")
		}
	})

	t.Run("barTicketFillsFirstPageOnly", func(t *testing.T) {
		dir := t.TempDir()
		s := NewSpooler(dir, SpoolPageBar, nil)

		if err := s.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}

		pages := spooledPages(t, dir)
		if len(pages) != 2 {
			t.Fatalf("spool file holds %d pages, want 2", len(pages))
		}
		if !bytes.Contains(pages[0], []byte("Cola")) {
			t.Error("bar page misses the ticket item")
		}
		if len(bytes.TrimSpace(pages[1])) != 0 {
			t.Errorf("kitchen page not blank: %q", pages[1])
		}
	})

	t.Run("kitchenTicketFillsSecondPageOnly", func(t *testing.T) {
		dir := t.TempDir()
		s := NewSpooler(dir, SpoolPageKitchen, nil)

		if err := s.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}

		pages := spooledPages(t, dir)
		if len(pages) != 2 {
			t.Fatalf("spool file holds %d pages, want 2", len(pages))
		}
		if len(bytes.TrimSpace(pages[0])) != 0 {
			t.Errorf("bar page not blank: %q", pages[0])
		}
		if !bytes.Contains(pages[1], []byte("Cola")) {
			t.Error("kitchen page misses the ticket item")
		}
	})

	t.Run("createsMissingDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "spool")
		s := NewSpooler(dir, SpoolPageBar, nil)

		if err := s.Print(context.Background(), testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("spool directory missing: %v", err)
		}
	})
}

func spooledPages(t *testing.T, dir string) [][]byte {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cannot read spool dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("spool dir holds %d files, want 1", len(entries))
	}

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("cannot read spool file: %v", err)
	}
	return bytes.Split(raw, []byte{'\f'})
}

type captureTransport struct {
	jobs []receipt.Job
}

func (c *captureTransport) Print(_ context.Context, job receipt.Job) error {
	c.jobs = append(c.jobs, job)
	return nil
}

func TestRouter(t *testing.T) {
	t.Run("routesByDepartment", func(t *testing.T) {
		bar := &captureTransport{}
		kitchen := &captureTransport{}

		r := NewRouter(nil)
		r.Register("bar", bar)
		r.Register("kitchen", kitchen)

		if err := r.Print(context.Background(), "kitchen", testJob()); err != nil {
			t.Fatalf("Print() error = %v", err)
		}
		if len(kitchen.jobs) != 1 || len(bar.jobs) != 0 {
			t.Errorf("kitchen got %d jobs, bar got %d, want 1 and 0", len(kitchen.jobs), len(bar.jobs))
		}
	})

	t.Run("unknownDepartmentFails", func(t *testing.T) {
		r := NewRouter(nil)
		if err := r.Print(context.Background(), "bar", testJob()); err == nil {
			t.Error("Print() with no transport did not fail")
		}
	})
}
