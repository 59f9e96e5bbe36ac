package game

// CompanionLockTracker watches for the same two Victims sharing a room
// in consecutive rounds and suspends their clue eligibility when they
// do. Locked players are exempt from re-evaluation so a persistent
// pairing cannot chain the lock forever.
type CompanionLockTracker struct {
	lockDuration int
	lockedUntil  map[int]int          // player id -> last locked round
	lastPartners map[int]map[int]bool // player id -> co-located victim ids last round
}

func NewCompanionLockTracker(lockDuration int) *CompanionLockTracker {
	return &CompanionLockTracker{
		lockDuration: lockDuration,
		lockedUntil:  map[int]int{},
		lastPartners: map[int]map[int]bool{},
	}
}

// Locked reports whether the player's clue eligibility is suspended in
// the given round.
func (t *CompanionLockTracker) Locked(id, round int) bool {
	return t.lockedUntil[id] >= round
}

func (t *CompanionLockTracker) LockedUntil(id int) (int, bool) {
	until, ok := t.lockedUntil[id]
	return until, ok
}

// Locks returns the active locks as of the given round.
func (t *CompanionLockTracker) Locks(round int) map[int]int {
	out := map[int]int{}
	for id, until := range t.lockedUntil {
		if until >= round {
			out[id] = until
		}
	}
	return out
}

// Evaluate runs at round advance for the round just completed. Victims
// sharing a room pairwise record each other; anyone repeating a partner
// from the previous round gets locked through round+lockDuration. The
// current snapshot then becomes the next baseline.
func (t *CompanionLockTracker) Evaluate(round int, livingVictims []*Player) {
	byRoom := map[string][]*Player{}
	for _, p := range livingVictims {
		byRoom[p.Room] = append(byRoom[p.Room], p)
	}

	shared := map[int]map[int]bool{}
	for _, group := range byRoom {
		if len(group) < 2 {
			continue
		}
		for _, p := range group {
			partners := map[int]bool{}
			for _, q := range group {
				if q.ID != p.ID {
					partners[q.ID] = true
				}
			}
			shared[p.ID] = partners
		}
	}

	for id, partners := range shared {
		if t.Locked(id, round) {
			continue
		}
		for partner := range partners {
			if t.lastPartners[id][partner] {
				t.lockedUntil[id] = round + t.lockDuration
				break
			}
		}
	}

	t.lastPartners = shared
}

func (t *CompanionLockTracker) RemovePlayer(id int) {
	delete(t.lockedUntil, id)
	delete(t.lastPartners, id)
	for _, partners := range t.lastPartners {
		delete(partners, id)
	}
}
