package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebouncer_Batches(t *testing.T) {
	batches := make(chan []string, 4)
	d := NewDebouncer(30*time.Millisecond, func(paths []string) { batches <- paths })
	defer d.Stop()

	d.Trigger("b.yaml")
	d.Trigger("a.yaml")
	d.Trigger("b.yaml")

	select {
	case got := <-batches:
		want := []string{"a.yaml", "b.yaml"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("batch = %v, want %v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}

	select {
	case got := <-batches:
		t.Errorf("unexpected second batch %v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	d := NewDebouncer(20*time.Millisecond, func([]string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	d.Trigger("a.yaml")
	d.Stop()
	d.Trigger("b.yaml")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("flush called %d times after Stop", calls)
	}
}

func TestNew_NoPaths(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("New() with no paths succeeded, want error")
	}
}

func TestWatcher_Accepts(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(t.TempDir(), "single.conf")
	if err := os.WriteFile(single, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{
		Paths:      []string{dir, single},
		Extensions: []string{".yaml", ".TOML"},
		SkipHidden: true,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.watcher.Close()
	for _, p := range w.config.Paths {
		if err := w.addPath(p); err != nil {
			t.Fatalf("addPath(%q) error = %v", p, err)
		}
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "yaml in dir", event: fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, want: true},
		{name: "extension case", event: fsnotify.Event{Name: filepath.Join(dir, "a.toml"), Op: fsnotify.Create}, want: true},
		{name: "wrong extension", event: fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Write}, want: false},
		{name: "hidden", event: fsnotify.Event{Name: filepath.Join(dir, ".a.yaml"), Op: fsnotify.Write}, want: false},
		{name: "chmod only", event: fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Chmod}, want: false},
		{name: "explicit file any extension", event: fsnotify.Event{Name: single, Op: fsnotify.Write}, want: true},
		{name: "sibling of explicit file", event: fsnotify.Event{Name: filepath.Join(filepath.Dir(single), "other.yaml"), Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.accepts(tt.event); got != tt.want {
				t.Errorf("accepts(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Config{
		Paths:      []string{dir},
		Debounce:   20 * time.Millisecond,
		Extensions: []string{".yaml"},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(paths []string) { batches <- paths })
	}()

	target := filepath.Join(dir, "fields.yaml")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// The watch starts asynchronously; keep writing until a batch arrives.
	for found := false; !found; {
		select {
		case got := <-batches:
			for _, p := range got {
				if p == target {
					found = true
				}
			}
		case <-tick.C:
			if err := os.WriteFile(target, []byte("fields: []\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported for fields.yaml")
		}
	}

	if err := w.Watch(ctx, func([]string) {}); err != ErrAlreadyRunning {
		t.Errorf("second Watch() error = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
