package game

import "testing"

func gv(round int, pin string, ev GhostEvent) GhostVoteRecord {
	return GhostVoteRecord{Round: round, VoterPin: pin, Event: ev}
}

func TestArbiterMajorityWins(t *testing.T) {
	a := NewGhostEventArbiter(3)
	votes := []GhostVoteRecord{
		gv(1, "10", EventShove),
		gv(1, "20", EventShove),
		gv(2, "30", EventScream),
	}
	ev, ok := a.Resolve(votes)
	if !ok || ev != EventShove {
		t.Fatalf("expected shove to win, got %s ok=%v", ev, ok)
	}
	if a.LastEvent() != EventShove {
		t.Fatal("winner should be remembered for the anti-repeat rule")
	}
}

func TestArbiterExcludesPreviousEvent(t *testing.T) {
	a := NewGhostEventArbiter(3)
	if ev, ok := a.Resolve([]GhostVoteRecord{gv(1, "10", EventReveal)}); !ok || ev != EventReveal {
		t.Fatalf("first resolution should pick reveal, got %s", ev)
	}

	// Reveal dominates again but cannot repeat; gaze wins instead.
	votes := []GhostVoteRecord{
		gv(4, "10", EventReveal),
		gv(4, "20", EventReveal),
		gv(5, "30", EventReveal),
		gv(5, "40", EventGaze),
	}
	ev, ok := a.Resolve(votes)
	if !ok || ev != EventGaze {
		t.Fatalf("previous event must be excluded, got %s ok=%v", ev, ok)
	}
}

func TestArbiterTieBreaksByOrdinal(t *testing.T) {
	a := NewGhostEventArbiter(3)
	votes := []GhostVoteRecord{
		gv(1, "10", EventSanctuary),
		gv(1, "20", EventScream),
	}
	ev, ok := a.Resolve(votes)
	if !ok || ev != EventScream {
		t.Fatalf("tie should break toward the lower ordinal, got %s", ev)
	}
}

func TestArbiterNoVotesNoEvent(t *testing.T) {
	a := NewGhostEventArbiter(3)
	if _, ok := a.Resolve(nil); ok {
		t.Fatal("no votes should yield no event")
	}
	a.last = EventShove
	if _, ok := a.Resolve([]GhostVoteRecord{gv(1, "10", EventShove)}); ok {
		t.Fatal("votes only for the excluded event should yield no event")
	}
}

func TestArbiterDueAndCheckpoint(t *testing.T) {
	a := NewGhostEventArbiter(3)
	if a.Due(2) || !a.Due(3) || a.Due(4) || !a.Due(6) {
		t.Fatal("due rounds should be multiples of the interval")
	}

	a.AdvanceCheckpoint(2)
	if a.Checkpoint() != 2 {
		t.Fatalf("expected checkpoint 2, got %d", a.Checkpoint())
	}
	a.AdvanceCheckpoint(1)
	if a.Checkpoint() != 2 {
		t.Fatal("checkpoint never moves backwards")
	}

	if err := a.SetInterval(0); err == nil {
		t.Fatal("interval below 1 must be rejected")
	}
	if err := a.SetInterval(5); err != nil {
		t.Fatalf("valid interval rejected: %v", err)
	}
	if !a.Due(10) {
		t.Fatal("new interval should apply")
	}
}
