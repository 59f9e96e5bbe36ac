package game

// GhostEventArbiter turns the dead players' accumulated votes into a
// single rule-mutating event every interval rounds. Votes accumulate
// across rounds between checkpoints, the previously triggered event is
// excluded, and ties break by lowest event ordinal so the outcome never
// depends on map iteration order.
type GhostEventArbiter struct {
	interval   int
	checkpoint int        // last round whose votes were consumed
	last       GhostEvent // previously triggered event, "" if none
}

func NewGhostEventArbiter(interval int) *GhostEventArbiter {
	return &GhostEventArbiter{interval: interval}
}

func (a *GhostEventArbiter) Interval() int { return a.interval }

func (a *GhostEventArbiter) SetInterval(n int) error {
	if n < 1 {
		return validationf("Ghost event interval must be at least 1.")
	}
	a.interval = n
	return nil
}

func (a *GhostEventArbiter) Checkpoint() int { return a.checkpoint }

func (a *GhostEventArbiter) LastEvent() GhostEvent { return a.last }

// Due reports whether the given (freshly started) round is a resolution
// checkpoint.
func (a *GhostEventArbiter) Due(round int) bool {
	return a.interval > 0 && round%a.interval == 0
}

// Resolve picks the majority event from the accumulated votes. The
// previously triggered event cannot repeat.
func (a *GhostEventArbiter) Resolve(votes []GhostVoteRecord) (GhostEvent, bool) {
	tally := map[GhostEvent]int{}
	for _, v := range votes {
		if v.Event == a.last {
			continue
		}
		tally[v.Event]++
	}

	var winner GhostEvent
	best := 0
	for _, ev := range ghostEventOrder {
		if tally[ev] > best {
			winner, best = ev, tally[ev]
		}
	}
	if best == 0 {
		return "", false
	}
	a.last = winner
	return winner, true
}

// AdvanceCheckpoint marks every round up to and including the given one
// as consumed.
func (a *GhostEventArbiter) AdvanceCheckpoint(round int) {
	if round > a.checkpoint {
		a.checkpoint = round
	}
}
