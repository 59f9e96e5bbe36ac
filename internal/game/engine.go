package game

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sanctuaryRoomCount = 2

// Settings are the knobs the engine starts with; the GM can change the
// intervals mid-game.
type Settings struct {
	GMPin                   string
	GhostEventInterval      int
	KillerAdvantageInterval int
	KillerAdvantageEnabled  bool
	CompanionLockRounds     int
}

func (s Settings) withDefaults() Settings {
	if s.GMPin == "" {
		s.GMPin = "1313"
	}
	if s.GhostEventInterval < 1 {
		s.GhostEventInterval = 3
	}
	if s.KillerAdvantageInterval < 1 {
		s.KillerAdvantageInterval = 4
	}
	if s.CompanionLockRounds < 1 {
		s.CompanionLockRounds = 2
	}
	return s
}

// Engine owns the authoritative game aggregate. Every operation, reads
// included, runs under the single mutex so no caller ever observes a
// partially updated round. NewGame swaps the aggregate wholesale.
type Engine struct {
	mu  sync.Mutex
	log zerolog.Logger

	settings Settings
	graph    *RoomGraph

	round   int
	roster  *RosterStore
	ledger  *TurnLedger
	clues   *ClueBank
	locks   *CompanionLockTracker
	arbiter *GhostEventArbiter
	effects Effects

	advEnabled  bool
	advInterval int

	// cluesDealtRound guards the round barrier: distribution runs once
	// per round, on the move that completes it.
	cluesDealtRound int
}

func NewEngine(settings Settings, log zerolog.Logger) *Engine {
	e := &Engine{
		settings: settings.withDefaults(),
		graph:    HouseGraph(),
		log:      log,
	}
	e.resetLocked()
	return e
}

func (e *Engine) resetLocked() {
	e.round = 1
	e.roster = NewRosterStore()
	e.ledger = NewTurnLedger()
	e.clues = NewClueBank(e.graph)
	e.locks = NewCompanionLockTracker(e.settings.CompanionLockRounds)
	e.arbiter = NewGhostEventArbiter(e.settings.GhostEventInterval)
	e.effects = Effects{KillerClueVisibility: true}
	e.advEnabled = e.settings.KillerAdvantageEnabled
	e.advInterval = e.settings.KillerAdvantageInterval
	e.cluesDealtRound = 0
}

func (e *Engine) Graph() *RoomGraph { return e.graph }

/* ---------- player operations ---------- */

func (e *Engine) Register(name string) (Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.Register(strings.TrimSpace(name), e.round)
	if err != nil {
		return Player{}, err
	}
	e.log.Info().Str("name", p.Name).Str("pin", p.Pin).Msg("player registered")
	return *p, nil
}

func (e *Engine) Rejoin(pin string) (Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.FindByPin(pin)
	if err != nil {
		return Player{}, err
	}
	return *p, nil
}

type MoveOutcome struct {
	Room string `json:"room"`
	Clue *Clue  `json:"clue,omitempty"`
}

// Move walks the player to an adjacent room, or records a Killer "stay"
// when stay is set. Completing the round's movement barrier triggers the
// clue distribution.
func (e *Engine) Move(pin, room string, stay bool) (MoveOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.FindByPin(pin)
	if err != nil {
		return MoveOutcome{}, err
	}
	if !p.Alive {
		return MoveOutcome{}, permissionf("Dead players cannot move.")
	}
	if e.ledger.MoveCountThisRound(e.round, pin) >= e.moveQuotaLocked(p) {
		return MoveOutcome{}, timingf("You already moved this round.")
	}

	from := p.Room
	dest := from
	if stay {
		if p.Role != RoleKiller {
			return MoveOutcome{}, permissionf("Only the Killer can lurk in place.")
		}
		if e.ledger.KillInRoomOnRound(e.round-1, from) {
			return MoveOutcome{}, timingf("You cannot linger where blood was spilled last round.")
		}
	} else {
		dest = strings.TrimSpace(room)
		if !e.graph.Contains(dest) {
			return MoveOutcome{}, validationf("Invalid room.")
		}
		if dest == from {
			return MoveOutcome{}, validationf("You must move to a different room.")
		}
		if !e.graph.Adjacent(from, dest) {
			return MoveOutcome{}, validationf("You cannot move there from this room.")
		}
	}

	e.ledger.RecordMove(MoveRecord{Round: e.round, Pin: pin, From: from, To: dest})
	p.Room = dest

	out := MoveOutcome{Room: dest}
	if granted := e.maybeDistributeCluesLocked(); granted != nil {
		if c, ok := granted[pin]; ok {
			clue := c
			out.Clue = &clue
		}
	}
	return out, nil
}

// moveQuotaLocked is 1, or 2 for the Killer on an advantage round.
func (e *Engine) moveQuotaLocked(p *Player) int {
	if p.Role == RoleKiller && e.advantageRoundLocked() {
		return 2
	}
	return 1
}

func (e *Engine) advantageRoundLocked() bool {
	return e.advEnabled && e.advInterval > 0 && e.round%e.advInterval == 0
}

// maybeDistributeCluesLocked runs the scarce clue grant once the last
// living player has moved. Only a sole-occupant, eligible Victim per
// room gets a fragment.
func (e *Engine) maybeDistributeCluesLocked() map[string]Clue {
	if e.cluesDealtRound == e.round || !e.clues.Loaded() {
		return nil
	}
	living := e.roster.Living()
	if !e.ledger.AllLivingHaveMoved(e.round, living) {
		return nil
	}
	e.cluesDealtRound = e.round

	granted := map[string]Clue{}
	for _, p := range living {
		if !e.clueEligibleLocked(p) {
			continue
		}
		text, ok := e.clues.Claim(p.Room)
		if !ok {
			continue
		}
		clue := Clue{Room: p.Room, Text: text}
		p.Clues = append(p.Clues, clue)
		granted[p.Pin] = clue
		e.log.Info().Str("pin", p.Pin).Str("room", p.Room).Msg("clue claimed")
	}
	return granted
}

func (e *Engine) clueEligibleLocked(p *Player) bool {
	if !p.Alive || p.Role != RoleVictim {
		return false
	}
	if len(e.clues.Unclaimed(p.Room)) == 0 {
		return false
	}
	for _, c := range p.Clues {
		if c.Room == p.Room {
			return false
		}
	}
	if e.locks.Locked(p.ID, e.round) {
		return false
	}
	return len(e.roster.LivingInRoom(p.Room)) == 1
}

func (e *Engine) Vote(pin, targetPin string) (PlayerRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	voter, err := e.roster.FindByPin(pin)
	if err != nil {
		return PlayerRef{}, notFoundf("Voter not found.")
	}
	if !voter.Alive {
		return PlayerRef{}, permissionf("Dead players cannot vote.")
	}
	target, err := e.roster.FindByPin(targetPin)
	if err != nil {
		return PlayerRef{}, notFoundf("Target not found.")
	}
	if voter.Pin == target.Pin {
		return PlayerRef{}, validationf("You cannot vote for yourself.")
	}
	if e.ledger.HasVotedThisRound(e.round, pin) {
		return PlayerRef{}, timingf("You already voted this round.")
	}

	e.ledger.RecordVote(VoteRecord{Round: e.round, VoterPin: voter.Pin, TargetPin: target.Pin})
	return ref(target), nil
}

// GhostVote lets a dead player steer the next arbitrated event. A later
// vote in the same round replaces the earlier one.
func (e *Engine) GhostVote(pin, event string) (GhostEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.FindByPin(pin)
	if err != nil {
		return "", err
	}
	if p.Alive {
		return "", permissionf("Only the dead may whisper to the house.")
	}
	ev, ok := ParseGhostEvent(event)
	if !ok {
		return "", validationf("Unknown ghost event.")
	}

	e.ledger.RecordGhostVote(GhostVoteRecord{Round: e.round, VoterPin: pin, Event: ev})
	return ev, nil
}

type KillOutcome struct {
	Victim PlayerRef `json:"victim"`
	Room   string    `json:"room"`
}

// Kill resolves a direct kill immediately when every gate holds; the
// victim's clues flow back into their origin rooms.
func (e *Engine) Kill(pin, targetPin string) (KillOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	killer, err := e.roster.FindByPin(pin)
	if err != nil {
		return KillOutcome{}, notFoundf("Killer not found.")
	}
	if killer.Role != RoleKiller {
		return KillOutcome{}, permissionf("You are not the Killer.")
	}
	if !killer.Alive {
		return KillOutcome{}, permissionf("Dead killers cannot kill.")
	}
	if e.effects.DeadIntervene.Active {
		return KillOutcome{}, timingf("An unseen force holds the knife still this round.")
	}
	if e.ledger.HasAnyKillThisRound(e.round) {
		return KillOutcome{}, conflictf("The house allows only one kill per round.")
	}
	if !e.ledger.AllLivingVictimsHaveMoved(e.round, e.roster.LivingVictims()) {
		return KillOutcome{}, timingf("You cannot strike until every living victim has moved this round.")
	}
	if !e.advantageRoundLocked() && e.ledger.RealMoveCountThisRound(e.round, pin) == 0 {
		return KillOutcome{}, timingf("You must move before you kill.")
	}

	victim, err := e.roster.FindByPin(targetPin)
	if err != nil || !victim.Alive || victim.Pin == killer.Pin {
		return KillOutcome{}, validationf("Invalid victim.")
	}
	if killer.Room != victim.Room {
		return KillOutcome{}, validationf("You are not alone with that victim.")
	}
	others := 0
	for _, p := range e.roster.LivingInRoom(killer.Room) {
		if p.Pin != killer.Pin {
			others++
		}
	}
	if others != 1 {
		return KillOutcome{}, conflictf("Too many eyes are watching. You hesitate.")
	}
	if e.effects.sanctuaryActive(killer.Room) {
		return KillOutcome{}, timingf("This room is protected ground tonight.")
	}

	e.killPlayerLocked(victim, KillDirect)
	return KillOutcome{Victim: ref(victim), Room: killer.Room}, nil
}

func (e *Engine) killPlayerLocked(victim *Player, reason KillReason) {
	victim.Alive = false
	e.releaseCluesLocked(victim)
	e.ledger.RecordKill(KillRecord{
		ID:        uuid.NewString(),
		Round:     e.round,
		Room:      victim.Room,
		VictimPin: victim.Pin,
		Resolved:  true,
		Reason:    reason,
	})
	if e.effects.Scream.Active {
		e.effects.ScreamRoom = victim.Room
	}
	e.log.Info().
		Str("pin", victim.Pin).
		Str("room", victim.Room).
		Str("reason", string(reason)).
		Int("round", e.round).
		Msg("player killed")
}

func (e *Engine) releaseCluesLocked(p *Player) {
	for _, c := range p.Clues {
		e.clues.Release(c.Room, c.Text)
	}
	p.Clues = nil
}

/* ---------- GM operations ---------- */

type UnlockOutcome struct {
	Token   string   `json:"token"`
	Round   int      `json:"round"`
	Players []Player `json:"players"`
}

func (e *Engine) Unlock(gmPin string) (UnlockOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gmPin != e.settings.GMPin {
		return UnlockOutcome{}, unauthorizedf("Invalid GM PIN.")
	}
	return UnlockOutcome{
		Token:   uuid.NewString(),
		Round:   e.round,
		Players: e.playersSnapshotLocked(),
	}, nil
}

func (e *Engine) GMPin() string { return e.settings.GMPin }

func (e *Engine) Roster() (int, []Player) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round, e.playersSnapshotLocked()
}

func (e *Engine) playersSnapshotLocked() []Player {
	players := e.roster.Players()
	out := make([]Player, 0, len(players))
	for _, p := range players {
		cp := *p
		cp.Clues = append([]Clue(nil), p.Clues...)
		out = append(out, cp)
	}
	return out
}

// UpdatePlayer is the GM override. Killing a player or demoting a
// Victim releases every clue they hold.
func (e *Engine) UpdatePlayer(id int, role *string, alive *bool) (Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.FindByID(id)
	if err != nil {
		return Player{}, err
	}
	if role != nil {
		r, ok := ParseRole(*role)
		if !ok {
			return Player{}, validationf("Invalid role.")
		}
		if p.Role == RoleVictim && r != RoleVictim {
			e.releaseCluesLocked(p)
		}
		p.Role = r
	}
	if alive != nil {
		if p.Alive && !*alive {
			e.releaseCluesLocked(p)
		}
		p.Alive = *alive
	}
	return *p, nil
}

func (e *Engine) RemovePlayer(id int, pin string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.roster.Remove(id, pin)
	if err != nil {
		return err
	}
	// Held fragments return to their rooms so the bank stays balanced.
	e.releaseCluesLocked(p)
	e.ledger.RemovePin(p.Pin)
	e.locks.RemovePlayer(p.ID)
	e.log.Info().Str("pin", p.Pin).Msg("player removed")
	return nil
}

func (e *Engine) RandomizeRoles() ([]Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.roster.RandomizeRoles(); err != nil {
		return nil, err
	}
	return e.playersSnapshotLocked(), nil
}

func (e *Engine) NewGame() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	e.log.Info().Msg("new game started")
	return e.round
}

type AdvanceOutcome struct {
	Round      int        `json:"round"`
	Executed   *PlayerRef `json:"executed,omitempty"`
	Scattered  bool       `json:"scattered"`
	GhostEvent GhostEvent `json:"ghostEvent,omitempty"`
}

// AdvanceRound is the single explicit state transition: execution,
// companion-lock bookkeeping, counter increment, latch promotion, shove
// scatter, then ghost-event arbitration when due.
func (e *Engine) AdvanceRound() AdvanceOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := AdvanceOutcome{}

	if targetPin, ok := e.ledger.MajorityTarget(e.round); ok {
		if victim, err := e.roster.FindByPin(targetPin); err == nil && victim.Alive {
			e.killPlayerLocked(victim, KillExecution)
			r := ref(victim)
			out.Executed = &r
		}
	}

	e.locks.Evaluate(e.round, e.roster.LivingVictims())

	e.round++
	e.effects.ScreamRoom = ""

	e.effects.RevealDots.promote()
	e.effects.KillerGaze.promote()
	e.effects.Scream.promote()
	e.effects.DeadIntervene.promote()
	sanctuaryPromoted := e.effects.Sanctuary.Armed
	e.effects.Sanctuary.promote()
	if sanctuaryPromoted {
		e.effects.SanctuaryRooms = e.pickSanctuaryRoomsLocked()
	} else if !e.effects.Sanctuary.Active {
		e.effects.SanctuaryRooms = nil
	}

	if e.effects.ShoveArmed {
		e.scatterLocked(false)
		e.effects.ShoveArmed = false
		e.effects.ShoveRound = e.round
		out.Scattered = true
	}

	if e.arbiter.Due(e.round) {
		votes := e.ledger.GhostVotesAfter(e.arbiter.Checkpoint())
		if ev, ok := e.arbiter.Resolve(votes); ok {
			e.applyGhostEventLocked(ev)
			out.GhostEvent = ev
			e.log.Info().Str("event", string(ev)).Int("round", e.round).Msg("ghost event triggered")
		}
		e.arbiter.AdvanceCheckpoint(e.round - 1)
		e.ledger.PruneGhostVotesThrough(e.round - 1)
	}

	out.Round = e.round
	e.log.Info().Int("round", e.round).Msg("round advanced")
	return out
}

// applyGhostEventLocked takes effect for the round just started, unlike
// GM toggles which only arm.
func (e *Engine) applyGhostEventLocked(ev GhostEvent) {
	switch ev {
	case EventReveal:
		e.effects.RevealDots.Active = true
	case EventGaze:
		e.effects.KillerGaze.Active = true
	case EventScream:
		e.effects.Scream.Active = true
	case EventShove:
		e.scatterLocked(false)
		e.effects.ShoveRound = e.round
	case EventIntervene:
		e.effects.DeadIntervene.Active = true
	case EventSanctuary:
		e.effects.Sanctuary.Active = true
		e.effects.SanctuaryRooms = e.pickSanctuaryRoomsLocked()
	}
}

func (e *Engine) pickSanctuaryRoomsLocked() []string {
	rooms := e.graph.Rooms()
	perm := rand.Perm(len(rooms))
	n := sanctuaryRoomCount
	if n > len(rooms) {
		n = len(rooms)
	}
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, rooms[i])
	}
	return out
}

// scatterLocked throws each affected player into a uniformly random
// room different from their current one, any room when the house has
// only one.
func (e *Engine) scatterLocked(includeDead bool) int {
	rooms := e.graph.Rooms()
	moved := 0
	for _, p := range e.roster.Players() {
		if !p.Alive && !includeDead {
			continue
		}
		dest := rooms[rand.Intn(len(rooms))]
		if len(rooms) > 1 {
			for dest == p.Room {
				dest = rooms[rand.Intn(len(rooms))]
			}
		}
		p.Room = dest
		moved++
	}
	return moved
}

func (e *Engine) Scatter(includeDead bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scatterLocked(includeDead)
}

/* ---------- GM toggles and knobs ---------- */

func (e *Engine) ToggleRevealDots() EffectLatch {
	return e.toggleLatch(&e.effects.RevealDots)
}

func (e *Engine) ToggleKillerGaze() EffectLatch {
	return e.toggleLatch(&e.effects.KillerGaze)
}

func (e *Engine) ToggleScream() EffectLatch {
	return e.toggleLatch(&e.effects.Scream)
}

func (e *Engine) ToggleDeadIntervene() EffectLatch {
	return e.toggleLatch(&e.effects.DeadIntervene)
}

func (e *Engine) ToggleSanctuary() EffectLatch {
	return e.toggleLatch(&e.effects.Sanctuary)
}

func (e *Engine) toggleLatch(l *EffectLatch) EffectLatch {
	e.mu.Lock()
	defer e.mu.Unlock()
	l.Armed = !l.Armed
	return *l
}

func (e *Engine) ToggleShove() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.effects.ShoveArmed = !e.effects.ShoveArmed
	return e.effects.ShoveArmed
}

// ToggleKillerClueVisibility is immediate, not latched: it changes what
// the Killer sees, not how a round plays out.
func (e *Engine) ToggleKillerClueVisibility() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.effects.KillerClueVisibility = !e.effects.KillerClueVisibility
	return e.effects.KillerClueVisibility
}

type KillerAdvantageView struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"`
	Active   bool `json:"active"`
}

func (e *Engine) SetKillerAdvantage(interval *int, enabled *bool) (KillerAdvantageView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if interval != nil {
		if *interval < 1 {
			return KillerAdvantageView{}, validationf("Killer advantage interval must be at least 1.")
		}
		e.advInterval = *interval
	}
	if enabled != nil {
		e.advEnabled = *enabled
	}
	return KillerAdvantageView{
		Enabled:  e.advEnabled,
		Interval: e.advInterval,
		Active:   e.advantageRoundLocked(),
	}, nil
}

func (e *Engine) SetGhostEventInterval(interval int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.arbiter.SetInterval(interval)
}

type CluesOutcome struct {
	Sentence  string              `json:"sentence"`
	Fragments int                 `json:"fragments"`
	PerRoom   map[string][]string `json:"perRoom"`
}

// GenerateClues cuts a fresh secret sentence into the room slots and
// wipes every player's claimed list.
func (e *Engine) GenerateClues(sentence string) (CluesOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.clues.Load(sentence); err != nil {
		return CluesOutcome{}, err
	}
	for _, p := range e.roster.Players() {
		p.Clues = nil
	}
	e.cluesDealtRound = 0

	perRoom := map[string][]string{}
	for _, room := range e.graph.Rooms() {
		perRoom[room] = e.clues.Unclaimed(room)
	}
	e.log.Info().Int("fragments", e.clues.Total()).Msg("clues generated")
	return CluesOutcome{
		Sentence:  e.clues.Sentence(),
		Fragments: e.clues.Total(),
		PerRoom:   perRoom,
	}, nil
}

func ref(p *Player) PlayerRef {
	return PlayerRef{ID: p.ID, Name: p.Name, Pin: p.Pin}
}
