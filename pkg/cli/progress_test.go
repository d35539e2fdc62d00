package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	progress.Increment()
	progress.Increment()

	if out := buf.String(); !strings.Contains(out, "2/4 files") {
		t.Errorf("expected 2/4 after two increments, got %q", out)
	}

	progress.Finish()
	out := buf.String()
	if !strings.Contains(out, "4/4 files") {
		t.Errorf("expected 4/4 after Finish, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish did not end the line")
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Increment()
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero total, got %q", buf.String())
	}
}

func TestSimpleProgress_Concurrent(t *testing.T) {
	progress := NewProgressReporter(&bytes.Buffer{}).(*SimpleProgress)
	progress.Start(50)

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress.Increment()
		}()
	}
	wg.Wait()

	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.current != 50 {
		t.Errorf("current = %d, want capped at 50", progress.current)
	}
}

func TestNewProgressReporter_NilWriter(t *testing.T) {
	progress := NewProgressReporter(nil).(*SimpleProgress)
	if progress.writer == nil {
		t.Error("writer is nil, want os.Stderr")
	}
}
