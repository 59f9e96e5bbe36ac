package game

import "testing"

func TestMajorityTargetStrictMaximum(t *testing.T) {
	l := NewTurnLedger()
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "10", TargetPin: "30"})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "20", TargetPin: "30"})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "40", TargetPin: "20"})

	target, ok := l.MajorityTarget(1)
	if !ok || target != "30" {
		t.Fatalf("expected strict majority for 30, got %q ok=%v", target, ok)
	}
}

func TestMajorityTargetTieYieldsNobody(t *testing.T) {
	l := NewTurnLedger()
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "10", TargetPin: "20"})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "20", TargetPin: "30"})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "30", TargetPin: "10"})

	if target, ok := l.MajorityTarget(1); ok {
		t.Fatalf("three-way tie should execute nobody, got %q", target)
	}
}

func TestMajorityTargetNoVotes(t *testing.T) {
	l := NewTurnLedger()
	if _, ok := l.MajorityTarget(1); ok {
		t.Fatal("no votes should yield no target")
	}
}

func TestMoveIndexTracksRealMoves(t *testing.T) {
	l := NewTurnLedger()
	l.RecordMove(MoveRecord{Round: 2, Pin: "10", From: RoomWhisperingHall, To: RoomStudy})
	l.RecordMove(MoveRecord{Round: 2, Pin: "20", From: RoomStudy, To: RoomStudy}) // killer stay

	if !l.HasMovedThisRound(2, "10") || !l.HasMovedThisRound(2, "20") {
		t.Fatal("both players should count as having moved")
	}
	if l.RealMoveCountThisRound(2, "10") != 1 {
		t.Fatal("room-changing move should count as real")
	}
	if l.RealMoveCountThisRound(2, "20") != 0 {
		t.Fatal("a stay is not a real move")
	}
	if l.HasMovedThisRound(1, "10") {
		t.Fatal("index must be round-scoped")
	}
}

func TestGhostVoteOverwrite(t *testing.T) {
	l := NewTurnLedger()
	l.RecordGhostVote(GhostVoteRecord{Round: 1, VoterPin: "10", Event: EventScream})
	l.RecordGhostVote(GhostVoteRecord{Round: 1, VoterPin: "10", Event: EventShove})

	votes := l.GhostVotesAfter(0)
	if len(votes) != 1 {
		t.Fatalf("expected one record after overwrite, got %d", len(votes))
	}
	if votes[0].Event != EventShove {
		t.Fatalf("later vote should win, got %s", votes[0].Event)
	}
	if ev, ok := l.GhostVoteThisRound(1, "10"); !ok || ev != EventShove {
		t.Fatalf("index should reflect the overwrite, got %s ok=%v", ev, ok)
	}
}

func TestGhostVotePruning(t *testing.T) {
	l := NewTurnLedger()
	l.RecordGhostVote(GhostVoteRecord{Round: 1, VoterPin: "10", Event: EventReveal})
	l.RecordGhostVote(GhostVoteRecord{Round: 2, VoterPin: "10", Event: EventGaze})
	l.RecordGhostVote(GhostVoteRecord{Round: 3, VoterPin: "20", Event: EventShove})

	l.PruneGhostVotesThrough(2)
	votes := l.GhostVotesAfter(0)
	if len(votes) != 1 || votes[0].Round != 3 {
		t.Fatalf("expected only round-3 vote to survive, got %v", votes)
	}
}

func TestRemovePinCascades(t *testing.T) {
	l := NewTurnLedger()
	l.RecordMove(MoveRecord{Round: 1, Pin: "10", From: RoomWhisperingHall, To: RoomStudy})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "10", TargetPin: "20"})
	l.RecordVote(VoteRecord{Round: 1, VoterPin: "30", TargetPin: "10"})
	l.RecordKill(KillRecord{Round: 1, Room: RoomStudy, VictimPin: "10", Resolved: true, Reason: KillDirect})
	l.RecordGhostVote(GhostVoteRecord{Round: 1, VoterPin: "10", Event: EventReveal})

	l.RemovePin("10")

	if l.HasMovedThisRound(1, "10") {
		t.Fatal("moves should be gone")
	}
	if l.HasVotedThisRound(1, "10") {
		t.Fatal("votes cast should be gone")
	}
	if tally := l.VoteTally(1); tally["10"] != 0 {
		t.Fatal("votes received should be gone")
	}
	if l.HasAnyKillThisRound(1) {
		t.Fatal("kill records should be gone")
	}
	if len(l.GhostVotesAfter(0)) != 0 {
		t.Fatal("ghost votes should be gone")
	}
}
