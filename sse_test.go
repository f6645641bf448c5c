package main

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("job1")
	c2 := b.Register("job1")
	c3 := b.Register("job2")

	if b.ClientCount("job1") != 2 {
		t.Fatalf("expected 2 clients for job1, got %d", b.ClientCount("job1"))
	}
	if b.ClientCount("job2") != 1 {
		t.Fatalf("expected 1 client for job2, got %d", b.ClientCount("job2"))
	}

	b.Unregister(c1)
	if b.ClientCount("job1") != 1 {
		t.Fatalf("expected 1 client for job1 after unregister, got %d", b.ClientCount("job1"))
	}

	b.Unregister(c2)
	b.Unregister(c3)
	if b.ClientCount("job1") != 0 || b.ClientCount("job2") != 0 {
		t.Fatal("expected 0 clients after full unregister")
	}
}

func TestBroadcasterDoubleUnregister(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("job1")
	b.Unregister(c)
	b.Unregister(c) // should not panic
}

func TestBroadcastJob(t *testing.T) {
	b := NewBroadcaster()

	c1 := b.Register("job1")
	c2 := b.Register("job1")
	c3 := b.Register("job2")

	b.BroadcastJob(JobView{ID: "job1", Status: JobProcessing})

	for _, c := range []*client{c1, c2} {
		select {
		case msg := <-c.ch:
			if !strings.Contains(msg, `"status":"processing"`) {
				t.Fatalf("unexpected event payload: %s", msg)
			}
			if !strings.Contains(msg, `"id":"job1"`) {
				t.Fatalf("unexpected event payload: %s", msg)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("client did not receive event")
		}
	}

	// c3 watches job2, should not receive.
	select {
	case <-c3.ch:
		t.Fatal("job2 watcher should not receive job1 events")
	case <-time.After(50 * time.Millisecond):
		// ok
	}

	b.Unregister(c1)
	b.Unregister(c2)
	b.Unregister(c3)
}

func TestBroadcastSkipsFullChannel(t *testing.T) {
	b := NewBroadcaster()
	c := b.Register("job1")

	// Fill the channel.
	for range sseChannelBuffer {
		b.BroadcastJob(JobView{ID: "job1", Status: JobQueued})
	}

	// This should not block.
	b.BroadcastJob(JobView{ID: "job1", Status: JobCompleted})

	b.Unregister(c)
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobID := "job1"
			if i%2 == 0 {
				jobID = "job2"
			}
			c := b.Register(jobID)
			b.BroadcastJob(JobView{ID: jobID, Status: JobProcessing})
			b.ClientCount(jobID)
			b.Unregister(c)
		}(i)
	}
	wg.Wait()

	if b.ClientCount("job1") != 0 || b.ClientCount("job2") != 0 {
		t.Fatal("expected 0 clients after concurrent test")
	}
}
