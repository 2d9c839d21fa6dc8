package search

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncerCollapsesRapidInput(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var (
		mu      sync.Mutex
		queries []string
	)
	record := func(q string) {
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()
	}

	d.Trigger("第", record)
	d.Trigger("第1", record)
	d.Trigger("第1章", record)

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 1 || queries[0] != "第1章" {
		t.Fatalf("queries = %q", queries)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var (
		mu    sync.Mutex
		fired bool
	)
	d.Trigger("作废的查询", func(string) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Fatalf("callback ran after Stop")
	}
}

func TestNewDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0)
	if d.delay != DefaultDebounce {
		t.Fatalf("delay = %v", d.delay)
	}
}
