package progress

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestTracker_Lifecycle(t *testing.T) {
	tracker := NewTracker(10)

	h := tracker.Start("git_fetch", "w1")
	active := tracker.Active("")
	if len(active) != 1 {
		t.Fatalf("Expected 1 active execution, got %d", len(active))
	}
	if active[0].State != StateRunning {
		t.Errorf("Expected state %s, got %s", StateRunning, active[0].State)
	}
	if active[0].Operation != "git_fetch" || active[0].Destination != "w1" {
		t.Errorf("Unexpected execution %+v", active[0])
	}

	h.Finish(StateFailed, errors.New("rejected"))
	h.Finish(StateSucceeded, nil)

	if n := len(tracker.Active("")); n != 0 {
		t.Errorf("Expected no active executions, got %d", n)
	}
	recent := tracker.Recent("w1")
	if len(recent) != 1 {
		t.Fatalf("Expected 1 finished execution, got %d", len(recent))
	}
	if recent[0].State != StateFailed {
		t.Errorf("Expected state %s, got %s", StateFailed, recent[0].State)
	}
	if recent[0].Error != "rejected" {
		t.Errorf("Expected error %q, got %q", "rejected", recent[0].Error)
	}
	if recent[0].EndTime.Before(recent[0].StartTime) {
		t.Error("Expected end time after start time")
	}
}

func TestTracker_FiltersByDestination(t *testing.T) {
	tracker := NewTracker(10)

	tracker.Start("git_status", "w1").Finish(StateSucceeded, nil)
	tracker.Start("git_status", "w2").Finish(StateCancelled, nil)
	tracker.Start("git_log", "w1")

	if n := len(tracker.Recent("w1")); n != 1 {
		t.Errorf("Expected 1 finished execution for w1, got %d", n)
	}
	if n := len(tracker.Recent("")); n != 2 {
		t.Errorf("Expected 2 finished executions, got %d", n)
	}
	if n := len(tracker.Active("w2")); n != 0 {
		t.Errorf("Expected no active executions for w2, got %d", n)
	}
	if n := len(tracker.Active("w1")); n != 1 {
		t.Errorf("Expected 1 active execution for w1, got %d", n)
	}
}

func TestTracker_HistoryIsBounded(t *testing.T) {
	tracker := NewTracker(3)

	for i := 0; i < 5; i++ {
		tracker.Start(fmt.Sprintf("op-%d", i), "w1").Finish(StateSucceeded, nil)
	}

	recent := tracker.Recent("")
	if len(recent) != 3 {
		t.Fatalf("Expected 3 finished executions, got %d", len(recent))
	}
	want := []string{"op-4", "op-3", "op-2"}
	for i, exec := range recent {
		if exec.Operation != want[i] {
			t.Errorf("recent[%d]: expected %s, got %s", i, want[i], exec.Operation)
		}
	}
}

func TestTracker_DefaultLimit(t *testing.T) {
	tracker := NewTracker(0)
	if tracker.limit != defaultHistorySize {
		t.Errorf("Expected limit %d, got %d", defaultHistorySize, tracker.limit)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := tracker.Start("git_status", fmt.Sprintf("w%d", i%5))
			h.Finish(StateSucceeded, nil)
		}(i)
	}
	wg.Wait()

	if n := len(tracker.Recent("")); n != 50 {
		t.Errorf("Expected 50 finished executions, got %d", n)
	}
	ids := make(map[uint64]bool)
	for _, exec := range tracker.Recent("") {
		if ids[exec.ID] {
			t.Errorf("Duplicate execution id %d", exec.ID)
		}
		ids[exec.ID] = true
	}
}
