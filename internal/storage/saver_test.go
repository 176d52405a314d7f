package storage

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSaverCoalescesBurstIntoOneWrite(t *testing.T) {
	var writes atomic.Int64
	var state atomic.Int64
	var captured atomic.Int64
	done := make(chan struct{}, 1)

	saver := NewSaver(30*time.Millisecond, func() error {
		writes.Add(1)
		captured.Store(state.Load())
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}, func(err error) { t.Errorf("unexpected write error: %v", err) })

	for i := 1; i <= 5; i++ {
		state.Store(int64(i))
		saver.ScheduleSave()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flush")
	}
	// Give a straggler write the chance to show up before counting.
	time.Sleep(80 * time.Millisecond)

	if got := writes.Load(); got != 1 {
		t.Fatalf("expected exactly one write, got %d", got)
	}
	if got := captured.Load(); got != 5 {
		t.Fatalf("expected flush to capture final state 5, got %d", got)
	}
}

func TestSaverScheduleDuringWriteTriggersFollowUp(t *testing.T) {
	var mu sync.Mutex
	var writes int
	release := make(chan struct{})
	entered := make(chan struct{})
	finished := make(chan struct{}, 2)

	var saver *Saver
	saver = NewSaver(10*time.Millisecond, func() error {
		mu.Lock()
		writes++
		first := writes == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		finished <- struct{}{}
		return nil
	}, func(err error) { t.Errorf("unexpected write error: %v", err) })

	go saver.FlushSave()
	<-entered

	// Dirtying mid-write must not start a second concurrent write.
	saver.ScheduleSave()
	saver.FlushSave()
	mu.Lock()
	concurrent := writes
	mu.Unlock()
	if concurrent != 1 {
		t.Fatalf("expected one in-flight write, got %d", concurrent)
	}

	close(release)
	<-finished

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for follow-up write")
	}

	mu.Lock()
	total := writes
	mu.Unlock()
	if total != 2 {
		t.Fatalf("expected exactly two writes, got %d", total)
	}
}

func TestSaverReportsWriteErrors(t *testing.T) {
	wantErr := errors.New("disk full")
	got := make(chan error, 1)

	saver := NewSaver(time.Millisecond, func() error { return wantErr }, func(err error) {
		got <- err
	})

	saver.FlushSave()

	select {
	case err := <-got:
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected disk full error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected error callback")
	}
}

func TestSaverIdleFlushWritesOnce(t *testing.T) {
	var writes atomic.Int64
	saver := NewSaver(time.Hour, func() error {
		writes.Add(1)
		return nil
	}, func(err error) { t.Errorf("unexpected write error: %v", err) })

	saver.ScheduleSave()
	saver.FlushSave() // cancels the armed timer and writes now

	time.Sleep(50 * time.Millisecond)
	if got := writes.Load(); got != 1 {
		t.Fatalf("expected one write, got %d", got)
	}
}
