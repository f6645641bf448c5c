package main

import (
	"fmt"
	"sync"
	"testing"
)

func newStoredPuzzle(rows, cols int) *Puzzle {
	grid := newLetterGrid(rows, cols)
	fillRandom(grid, testRNG(5))
	return newPuzzle(rows, cols, grid, nil, nil, "")
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := NewStore()
	p := s.SavePuzzle(newStoredPuzzle(10, 10))

	if p.ID == "" {
		t.Fatal("expected puzzle to have an ID")
	}
	if got := s.GetPuzzle(p.ID); got == nil {
		t.Fatal("expected to find saved puzzle")
	}
	if got := s.GetPuzzle("nonexistent"); got != nil {
		t.Fatal("expected nil for unknown ID")
	}
}

func TestListPuzzles(t *testing.T) {
	s := NewStore()
	s.SavePuzzle(newStoredPuzzle(5, 5))
	s.SavePuzzle(newStoredPuzzle(8, 8))

	list := s.ListPuzzles()
	if len(list) != 2 {
		t.Fatalf("expected 2 puzzles, got %d", len(list))
	}
	// Most recent first.
	if list[0].CreatedAt.Before(list[1].CreatedAt) {
		t.Fatal("expected puzzles sorted by descending creation time")
	}
}

func TestCreateAndDeleteJob(t *testing.T) {
	s := NewStore()

	job := s.CreateJob()
	if job.ID == "" {
		t.Fatal("expected job to have an ID")
	}
	if got := s.GetJob(job.ID); got != job {
		t.Fatal("expected to find created job")
	}
	if view := job.Snapshot(); view.Status != JobQueued {
		t.Fatalf("expected new job to be queued, got %s", view.Status)
	}

	if !s.DeleteJob(job.ID) {
		t.Fatal("expected DeleteJob to succeed")
	}
	if s.DeleteJob(job.ID) {
		t.Fatal("expected second DeleteJob to fail")
	}
	if got := s.GetJob(job.ID); got != nil {
		t.Fatal("expected nil after delete")
	}
}

func TestJobLifecycle(t *testing.T) {
	s := NewStore()
	job := s.CreateJob()

	job.Start()
	if view := job.Snapshot(); view.Status != JobProcessing {
		t.Fatalf("expected processing, got %s", view.Status)
	}

	p := newStoredPuzzle(3, 3)
	job.Complete(p)
	view := job.Snapshot()
	if view.Status != JobCompleted {
		t.Fatalf("expected completed, got %s", view.Status)
	}
	if view.Puzzle != p {
		t.Fatal("expected snapshot to carry the puzzle")
	}
	if view.Error != "" {
		t.Fatalf("unexpected error message: %q", view.Error)
	}
}

func TestJobFailure(t *testing.T) {
	s := NewStore()
	job := s.CreateJob()

	job.Start()
	job.Fail("aucune disposition")

	view := job.Snapshot()
	if view.Status != JobFailed {
		t.Fatalf("expected failed, got %s", view.Status)
	}
	if view.Error != "aucune disposition" {
		t.Fatalf("unexpected error message: %q", view.Error)
	}
	if view.Puzzle != nil {
		t.Fatal("failed job must not carry a puzzle")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := s.SavePuzzle(newStoredPuzzle(4, 4))
			s.GetPuzzle(p.ID)
			s.ListPuzzles()

			job := s.CreateJob()
			job.Start()
			if i%2 == 0 {
				job.Complete(p)
			} else {
				job.Fail(fmt.Sprintf("fail %d", i))
			}
			job.Snapshot()
			s.DeleteJob(job.ID)
		}(i)
	}
	wg.Wait()
}
