package game

type PlayerRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

type Occupant struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

type RoomInfo struct {
	Room        string     `json:"room"`
	Description string     `json:"description"`
	Living      []Occupant `json:"living"`
	Bodies      []Occupant `json:"bodies"`
}

type RosterEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Pin   string `json:"pin"`
	Alive bool   `json:"alive"`
}

type RoomDots struct {
	Room  string `json:"room"`
	Total int    `json:"total"`
}

type GazeSighting struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// StateView is everything one player is allowed to see.
type StateView struct {
	Round          int            `json:"round"`
	Player         Player         `json:"player"`
	RoomInfo       RoomInfo       `json:"roomInfo"`
	AllowedRooms   []string       `json:"allowedRooms"`
	CanStay        bool           `json:"canStay"`
	Roster         []RosterEntry  `json:"roster"`
	CanKill        bool           `json:"canKill"`
	KillTarget     *Occupant      `json:"killTarget,omitempty"`
	RevealDots     bool           `json:"revealDots"`
	RoomDots       []RoomDots     `json:"roomDots,omitempty"`
	RoomClues      []string       `json:"roomClues"`
	ScreamRoom     string         `json:"screamRoom,omitempty"`
	Gaze           []GazeSighting `json:"gaze,omitempty"`
	AdvantageRound bool           `json:"advantageRound"`
	MovesLeft      int            `json:"movesLeft"`
	GhostEvents    []GhostEvent   `json:"ghostEvents,omitempty"`
	GhostVote      GhostEvent     `json:"ghostVote,omitempty"`
	ClueLocked     bool           `json:"clueLocked"`
}

// State assembles a consistent snapshot for one player under the same
// lock every mutation takes.
func (e *Engine) State(pin string) (StateView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.FindByPin(pin)
	if err != nil {
		return StateView{}, err
	}

	view := StateView{
		Round:          e.round,
		AllowedRooms:   e.graph.Neighbors(p.Room),
		RevealDots:     e.effects.RevealDots.Active,
		ScreamRoom:     e.effects.ScreamRoom,
		AdvantageRound: e.advantageRoundLocked(),
		ClueLocked:     e.locks.Locked(p.ID, e.round),
	}
	view.Player = *p
	view.Player.Clues = append([]Clue(nil), p.Clues...)

	view.RoomInfo = RoomInfo{
		Room:        p.Room,
		Description: e.graph.Description(p.Room),
		Living:      occupants(e.roster.LivingInRoom(p.Room)),
		Bodies:      occupants(e.roster.DeadInRoom(p.Room)),
	}

	for _, other := range e.roster.Players() {
		view.Roster = append(view.Roster, RosterEntry{
			ID: other.ID, Name: other.Name, Pin: other.Pin, Alive: other.Alive,
		})
	}

	if p.Alive {
		if left := e.moveQuotaLocked(p) - e.ledger.MoveCountThisRound(e.round, pin); left > 0 {
			view.MovesLeft = left
		}
	}

	if e.effects.RevealDots.Active {
		counts := map[string]int{}
		for _, other := range e.roster.Players() {
			counts[other.Room]++
		}
		for _, room := range e.graph.Rooms() {
			view.RoomDots = append(view.RoomDots, RoomDots{Room: room, Total: counts[room]})
		}
	}

	if p.Role == RoleKiller && p.Alive {
		view.CanStay = !e.ledger.KillInRoomOnRound(e.round-1, p.Room)
		view.CanKill, view.KillTarget = e.killChanceLocked(p)
		if e.effects.KillerGaze.Active {
			for _, other := range e.roster.Living() {
				if other.Pin != p.Pin {
					view.Gaze = append(view.Gaze, GazeSighting{Name: other.Name, Room: other.Room})
				}
			}
		}
	}

	view.RoomClues = e.visibleRoomCluesLocked(p)

	if !p.Alive {
		view.GhostEvents = append([]GhostEvent(nil), ghostEventOrder...)
		if ev, ok := e.ledger.GhostVoteThisRound(e.round, p.Pin); ok {
			view.GhostVote = ev
		}
	}

	return view, nil
}

// killChanceLocked mirrors the Kill gates without naming a target: it
// tells the Killer whether striking right now would succeed.
func (e *Engine) killChanceLocked(killer *Player) (bool, *Occupant) {
	if e.effects.DeadIntervene.Active || e.effects.sanctuaryActive(killer.Room) {
		return false, nil
	}
	if e.ledger.HasAnyKillThisRound(e.round) {
		return false, nil
	}
	if !e.ledger.AllLivingVictimsHaveMoved(e.round, e.roster.LivingVictims()) {
		return false, nil
	}
	if !e.advantageRoundLocked() && e.ledger.RealMoveCountThisRound(e.round, killer.Pin) == 0 {
		return false, nil
	}
	var other *Player
	for _, p := range e.roster.LivingInRoom(killer.Room) {
		if p.Pin == killer.Pin {
			continue
		}
		if other != nil {
			return false, nil
		}
		other = p
	}
	if other == nil {
		return false, nil
	}
	return true, &Occupant{Name: other.Name, Pin: other.Pin}
}

// visibleRoomCluesLocked applies the visibility rules: the Killer sees
// the room's open slots when clue visibility is on; Victims see only
// what they personally claimed here.
func (e *Engine) visibleRoomCluesLocked(p *Player) []string {
	if !e.clues.Loaded() {
		return nil
	}
	if p.Role == RoleKiller && e.effects.KillerClueVisibility {
		return e.clues.Unclaimed(p.Room)
	}
	var out []string
	for _, c := range p.Clues {
		if c.Room == p.Room {
			out = append(out, c.Text)
		}
	}
	return out
}

func occupants(players []*Player) []Occupant {
	out := make([]Occupant, 0, len(players))
	for _, p := range players {
		out = append(out, Occupant{Name: p.Name, Pin: p.Pin})
	}
	return out
}

/* ---------- GM summary ---------- */

type RoomSummary struct {
	Room    string        `json:"room"`
	Players []RosterEntry `json:"players"`
	Clues   []string      `json:"clues"`
}

type VoteTallyEntry struct {
	Pin   string `json:"pin"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type KillAttemptView struct {
	VictimPin  string     `json:"victimPin"`
	VictimName string     `json:"victimName"`
	Room       string     `json:"room"`
	Resolved   bool       `json:"resolved"`
	Reason     KillReason `json:"reason"`
}

type CompanionLockView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LockedUntil int    `json:"lockedUntil"`
}

type ClueProgress struct {
	Sentence  string `json:"sentence,omitempty"`
	Total     int    `json:"total"`
	Claimed   int    `json:"claimed"`
	Unclaimed int    `json:"unclaimed"`
}

type GhostStatus struct {
	Interval   int                `json:"interval"`
	Checkpoint int                `json:"checkpoint"`
	LastEvent  GhostEvent         `json:"lastEvent,omitempty"`
	Tally      map[GhostEvent]int `json:"tally"`
}

// SummaryView is the GM's omniscient snapshot.
type SummaryView struct {
	Round           int                 `json:"round"`
	Rooms           []RoomSummary       `json:"rooms"`
	Players         []Player            `json:"players"`
	NotMoved        []RosterEntry       `json:"notMoved"`
	NotVoted        []RosterEntry       `json:"notVoted"`
	VotesByTarget   []VoteTallyEntry    `json:"votesByTarget"`
	KillAttempts    []KillAttemptView   `json:"killAttempts"`
	Effects         Effects             `json:"effects"`
	KillerAdvantage KillerAdvantageView `json:"killerAdvantage"`
	Ghost           GhostStatus         `json:"ghost"`
	CompanionLocks  []CompanionLockView `json:"companionLocks"`
	Clues           ClueProgress        `json:"clues"`
}

func (e *Engine) Summary() SummaryView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := SummaryView{
		Round:   e.round,
		Players: e.playersSnapshotLocked(),
		Effects: e.effects,
		KillerAdvantage: KillerAdvantageView{
			Enabled:  e.advEnabled,
			Interval: e.advInterval,
			Active:   e.advantageRoundLocked(),
		},
	}

	for _, room := range e.graph.Rooms() {
		var here []RosterEntry
		for _, p := range e.roster.Players() {
			if p.Room == room {
				here = append(here, RosterEntry{ID: p.ID, Name: p.Name, Pin: p.Pin, Alive: p.Alive})
			}
		}
		view.Rooms = append(view.Rooms, RoomSummary{
			Room:    room,
			Players: here,
			Clues:   e.clues.Unclaimed(room),
		})
	}

	for _, p := range e.roster.Living() {
		entry := RosterEntry{ID: p.ID, Name: p.Name, Pin: p.Pin, Alive: p.Alive}
		if !e.ledger.HasMovedThisRound(e.round, p.Pin) {
			view.NotMoved = append(view.NotMoved, entry)
		}
		if !e.ledger.HasVotedThisRound(e.round, p.Pin) {
			view.NotVoted = append(view.NotVoted, entry)
		}
	}

	for pin, count := range e.ledger.VoteTally(e.round) {
		name := "PIN " + pin
		if p, err := e.roster.FindByPin(pin); err == nil {
			name = p.Name
		}
		view.VotesByTarget = append(view.VotesByTarget, VoteTallyEntry{Pin: pin, Name: name, Count: count})
	}

	for _, k := range e.ledger.KillsThisRound(e.round) {
		name := "PIN " + k.VictimPin
		if p, err := e.roster.FindByPin(k.VictimPin); err == nil {
			name = p.Name
		}
		view.KillAttempts = append(view.KillAttempts, KillAttemptView{
			VictimPin:  k.VictimPin,
			VictimName: name,
			Room:       k.Room,
			Resolved:   k.Resolved,
			Reason:     k.Reason,
		})
	}

	tally := map[GhostEvent]int{}
	for _, gv := range e.ledger.GhostVotesAfter(e.arbiter.Checkpoint()) {
		tally[gv.Event]++
	}
	view.Ghost = GhostStatus{
		Interval:   e.arbiter.Interval(),
		Checkpoint: e.arbiter.Checkpoint(),
		LastEvent:  e.arbiter.LastEvent(),
		Tally:      tally,
	}

	for id, until := range e.locks.Locks(e.round) {
		name := ""
		if p, err := e.roster.FindByID(id); err == nil {
			name = p.Name
		}
		view.CompanionLocks = append(view.CompanionLocks, CompanionLockView{
			ID: id, Name: name, LockedUntil: until,
		})
	}

	claimed := 0
	for _, p := range e.roster.Players() {
		claimed += len(p.Clues)
	}
	view.Clues = ClueProgress{
		Sentence:  e.clues.Sentence(),
		Total:     e.clues.Total(),
		Claimed:   claimed,
		Unclaimed: e.clues.UnclaimedCount(),
	}

	return view
}
