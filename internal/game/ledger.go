package game

// TurnLedger is the append-only fact log for moves, votes, kills and
// ghost votes. Business rules are validated by the engine before a
// record lands here; the ledger only stores and indexes.
//
// Alongside the raw logs it keeps a per-round index so the hot queries
// (has X moved, vote tallies) do not rescan history on every request.
type TurnLedger struct {
	moves      []MoveRecord
	votes      []VoteRecord
	kills      []KillRecord
	ghostVotes []GhostVoteRecord

	moveCounts map[int]map[string]int        // round -> pin -> moves
	realMoves  map[int]map[string]int        // round -> pin -> room-changing moves
	voters     map[int]map[string]string     // round -> voterPin -> targetPin
	killRooms  map[int][]string              // round -> rooms with kill records
	ghostBy    map[int]map[string]GhostEvent // round -> voterPin -> event
}

func NewTurnLedger() *TurnLedger {
	return &TurnLedger{
		moveCounts: map[int]map[string]int{},
		realMoves:  map[int]map[string]int{},
		voters:     map[int]map[string]string{},
		killRooms:  map[int][]string{},
		ghostBy:    map[int]map[string]GhostEvent{},
	}
}

func (l *TurnLedger) RecordMove(rec MoveRecord) {
	l.moves = append(l.moves, rec)
	bump(l.moveCounts, rec.Round, rec.Pin)
	if rec.From != rec.To {
		bump(l.realMoves, rec.Round, rec.Pin)
	}
}

func (l *TurnLedger) RecordVote(rec VoteRecord) {
	l.votes = append(l.votes, rec)
	if l.voters[rec.Round] == nil {
		l.voters[rec.Round] = map[string]string{}
	}
	l.voters[rec.Round][rec.VoterPin] = rec.TargetPin
}

func (l *TurnLedger) RecordKill(rec KillRecord) {
	l.kills = append(l.kills, rec)
	l.killRooms[rec.Round] = append(l.killRooms[rec.Round], rec.Room)
}

// RecordGhostVote stores one vote per dead voter per round; a later vote
// in the same round overwrites the earlier one.
func (l *TurnLedger) RecordGhostVote(rec GhostVoteRecord) {
	if l.ghostBy[rec.Round] == nil {
		l.ghostBy[rec.Round] = map[string]GhostEvent{}
	}
	if _, exists := l.ghostBy[rec.Round][rec.VoterPin]; exists {
		for i, gv := range l.ghostVotes {
			if gv.Round == rec.Round && gv.VoterPin == rec.VoterPin {
				l.ghostVotes[i].Event = rec.Event
				break
			}
		}
	} else {
		l.ghostVotes = append(l.ghostVotes, rec)
	}
	l.ghostBy[rec.Round][rec.VoterPin] = rec.Event
}

func bump(idx map[int]map[string]int, round int, pin string) {
	if idx[round] == nil {
		idx[round] = map[string]int{}
	}
	idx[round][pin]++
}

func (l *TurnLedger) HasMovedThisRound(round int, pin string) bool {
	return l.moveCounts[round][pin] > 0
}

func (l *TurnLedger) MoveCountThisRound(round int, pin string) int {
	return l.moveCounts[round][pin]
}

// RealMoveCountThisRound counts only room-changing moves; a Killer
// "stay" does not satisfy the move-before-kill gate.
func (l *TurnLedger) RealMoveCountThisRound(round int, pin string) int {
	return l.realMoves[round][pin]
}

func (l *TurnLedger) HasVotedThisRound(round int, pin string) bool {
	_, ok := l.voters[round][pin]
	return ok
}

func (l *TurnLedger) AllLivingHaveMoved(round int, living []*Player) bool {
	if len(living) == 0 {
		return false
	}
	for _, p := range living {
		if !l.HasMovedThisRound(round, p.Pin) {
			return false
		}
	}
	return true
}

func (l *TurnLedger) AllLivingVictimsHaveMoved(round int, victims []*Player) bool {
	return l.AllLivingHaveMoved(round, victims)
}

func (l *TurnLedger) HasAnyKillThisRound(round int) bool {
	return len(l.killRooms[round]) > 0
}

// KillInRoomOnRound reports whether any kill record landed in the room
// on the given round; blocks the Killer lingering at a murder scene.
func (l *TurnLedger) KillInRoomOnRound(round int, room string) bool {
	for _, r := range l.killRooms[round] {
		if r == room {
			return true
		}
	}
	return false
}

func (l *TurnLedger) VotesThisRound(round int) []VoteRecord {
	var out []VoteRecord
	for _, v := range l.votes {
		if v.Round == round {
			out = append(out, v)
		}
	}
	return out
}

func (l *TurnLedger) VoteTally(round int) map[string]int {
	tally := map[string]int{}
	for _, target := range l.voters[round] {
		tally[target]++
	}
	return tally
}

// MajorityTarget returns the pin holding a strict single maximum of the
// round's votes. Any tie at the maximum means no execution.
func (l *TurnLedger) MajorityTarget(round int) (string, bool) {
	tally := l.VoteTally(round)
	best, bestCount, tied := "", 0, false
	for pin, count := range tally {
		switch {
		case count > bestCount:
			best, bestCount, tied = pin, count, false
		case count == bestCount:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}

func (l *TurnLedger) Kills() []KillRecord {
	out := make([]KillRecord, len(l.kills))
	copy(out, l.kills)
	return out
}

func (l *TurnLedger) KillsThisRound(round int) []KillRecord {
	var out []KillRecord
	for _, k := range l.kills {
		if k.Round == round {
			out = append(out, k)
		}
	}
	return out
}

// GhostVoteThisRound returns the voter's current-round ghost vote.
func (l *TurnLedger) GhostVoteThisRound(round int, pin string) (GhostEvent, bool) {
	ev, ok := l.ghostBy[round][pin]
	return ev, ok
}

// GhostVotesAfter returns ghost votes cast after the checkpoint round.
func (l *TurnLedger) GhostVotesAfter(checkpoint int) []GhostVoteRecord {
	var out []GhostVoteRecord
	for _, gv := range l.ghostVotes {
		if gv.Round > checkpoint {
			out = append(out, gv)
		}
	}
	return out
}

// PruneGhostVotesThrough drops consumed ghost votes up to and including
// the given round.
func (l *TurnLedger) PruneGhostVotesThrough(round int) {
	kept := l.ghostVotes[:0]
	for _, gv := range l.ghostVotes {
		if gv.Round > round {
			kept = append(kept, gv)
		}
	}
	l.ghostVotes = kept
	for r := range l.ghostBy {
		if r <= round {
			delete(l.ghostBy, r)
		}
	}
}

// RemovePin cascades a player removal through every log and index. The
// pin disappears both as actor and as vote target.
func (l *TurnLedger) RemovePin(pin string) {
	moves := l.moves[:0]
	for _, m := range l.moves {
		if m.Pin != pin {
			moves = append(moves, m)
		}
	}
	l.moves = moves

	votes := l.votes[:0]
	for _, v := range l.votes {
		if v.VoterPin != pin && v.TargetPin != pin {
			votes = append(votes, v)
		}
	}
	l.votes = votes

	kills := l.kills[:0]
	for _, k := range l.kills {
		if k.VictimPin != pin {
			kills = append(kills, k)
		}
	}
	l.kills = kills

	ghosts := l.ghostVotes[:0]
	for _, gv := range l.ghostVotes {
		if gv.VoterPin != pin {
			ghosts = append(ghosts, gv)
		}
	}
	l.ghostVotes = ghosts

	for _, byPin := range l.moveCounts {
		delete(byPin, pin)
	}
	for _, byPin := range l.realMoves {
		delete(byPin, pin)
	}
	for _, byVoter := range l.voters {
		delete(byVoter, pin)
		for voter, target := range byVoter {
			if target == pin {
				delete(byVoter, voter)
			}
		}
	}
	for _, byPin := range l.ghostBy {
		delete(byPin, pin)
	}
	l.killRooms = map[int][]string{}
	for _, k := range l.kills {
		l.killRooms[k.Round] = append(l.killRooms[k.Round], k.Room)
	}
}
