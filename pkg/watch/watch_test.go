package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before a change")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func testWatch(t *testing.T, opts ...Option) {
	path := filepath.Join(t.TempDir(), "tree.txt")
	if err := os.WriteFile(path, []byte("root\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts = append(opts, WithDebounce(10*time.Millisecond), WithPollInterval(20*time.Millisecond))
	w, err := New(path, opts...)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Give the poller a tick to record the initial state.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("root\n├─ a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, ch)

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchNotify(t *testing.T) {
	testWatch(t)
}

func TestWatchPoll(t *testing.T) {
	testWatch(t, WithForcePoll(true))
}

func TestWatchPollReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.txt")
	_ = os.WriteFile(path, []byte("x"), 0o644)

	removed := make(chan error, 1)
	w, _ := New(path, WithForcePoll(true), WithPollInterval(10*time.Millisecond), WithOnError(func(err error) {
		select {
		case removed <- err:
		default:
		}
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !w.Polling() {
		t.Error("Polling() = false with WithForcePoll")
	}

	time.Sleep(30 * time.Millisecond)
	_ = os.Remove(path)
	select {
	case err := <-removed:
		if !errors.Is(err, ErrRemoved) {
			t.Errorf("error = %v, want ErrRemoved", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("removal not reported")
	}
}

func TestStartRejectsDirectory(t *testing.T) {
	w, _ := New(t.TempDir())
	if _, err := w.Start(context.Background()); err == nil {
		t.Error("Start() on a directory should fail")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	b := &debouncer{d: 20 * time.Millisecond, fn: func() { calls.Add(1) }}
	for range 5 {
		b.trigger()
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("fn called %d times, want 1", got)
	}

	b.trigger()
	b.stop()
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("fn ran after stop: %d calls", got)
	}
}
