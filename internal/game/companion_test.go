package game

import "testing"

func victimPair(room string) []*Player {
	return []*Player{
		{ID: 1, Pin: "10", Role: RoleVictim, Alive: true, Room: room},
		{ID: 2, Pin: "20", Role: RoleVictim, Alive: true, Room: room},
	}
}

func TestCompanionLockNeedsConsecutiveRounds(t *testing.T) {
	tr := NewCompanionLockTracker(2)

	tr.Evaluate(1, victimPair(RoomStudy))
	if tr.Locked(1, 2) || tr.Locked(2, 2) {
		t.Fatal("a single shared round must not lock")
	}

	tr.Evaluate(2, victimPair(RoomParlor))
	if !tr.Locked(1, 3) || !tr.Locked(2, 3) {
		t.Fatal("two consecutive shared rounds should lock both victims")
	}
	// lockDuration 2 from round 2: locked through round 4.
	if !tr.Locked(1, 4) {
		t.Fatal("lock should persist through round 4")
	}
	if tr.Locked(1, 5) {
		t.Fatal("lock should expire after round 4")
	}
}

func TestCompanionLockBrokenPairingResets(t *testing.T) {
	tr := NewCompanionLockTracker(2)

	tr.Evaluate(1, victimPair(RoomStudy))
	// Round 2 apart: baseline rotates to empty partner sets.
	tr.Evaluate(2, []*Player{
		{ID: 1, Pin: "10", Role: RoleVictim, Alive: true, Room: RoomStudy},
		{ID: 2, Pin: "20", Role: RoleVictim, Alive: true, Room: RoomParlor},
	})
	// Round 3 together again: no consecutive repeat, no lock.
	tr.Evaluate(3, victimPair(RoomKitchen))
	if tr.Locked(1, 4) || tr.Locked(2, 4) {
		t.Fatal("pairing with a gap must not lock")
	}
}

func TestCompanionLockExemptWhileActive(t *testing.T) {
	tr := NewCompanionLockTracker(2)

	tr.Evaluate(1, victimPair(RoomStudy))
	tr.Evaluate(2, victimPair(RoomStudy)) // locked until round 4
	until, ok := tr.LockedUntil(1)
	if !ok || until != 4 {
		t.Fatalf("expected lock until round 4, got %d ok=%v", until, ok)
	}

	// The pair keeps sharing; an active lock must not be extended.
	tr.Evaluate(3, victimPair(RoomStudy))
	tr.Evaluate(4, victimPair(RoomStudy))
	if until, _ := tr.LockedUntil(1); until != 4 {
		t.Fatalf("active lock must not chain, got until=%d", until)
	}

	// Once expired, a fresh repeat locks again.
	tr.Evaluate(5, victimPair(RoomStudy))
	if until, _ := tr.LockedUntil(1); until != 7 {
		t.Fatalf("expected relock until round 7, got %d", until)
	}
}

func TestCompanionLockThirdWheel(t *testing.T) {
	tr := NewCompanionLockTracker(1)

	trio := append(victimPair(RoomStudy),
		&Player{ID: 3, Pin: "30", Role: RoleVictim, Alive: true, Room: RoomStudy})
	tr.Evaluate(1, trio)

	// Player 3 leaves; 1 and 2 repeat.
	tr.Evaluate(2, append(victimPair(RoomStudy),
		&Player{ID: 3, Pin: "30", Role: RoleVictim, Alive: true, Room: RoomCellar}))

	if !tr.Locked(1, 3) || !tr.Locked(2, 3) {
		t.Fatal("repeating pair should lock")
	}
	if tr.Locked(3, 3) {
		t.Fatal("the victim who left must stay unlocked")
	}
}
