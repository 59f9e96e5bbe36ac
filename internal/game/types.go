package game

type Role string

const (
	RoleUnknown Role = "Unknown"
	RoleVictim  Role = "Victim"
	RoleKiller  Role = "Killer"
)

// ParseRole accepts only the closed role set; anything else is rejected
// at the boundary.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUnknown, RoleVictim, RoleKiller:
		return Role(s), true
	}
	return "", false
}

type GhostEvent string

const (
	EventReveal    GhostEvent = "reveal"
	EventGaze      GhostEvent = "gaze"
	EventScream    GhostEvent = "scream"
	EventShove     GhostEvent = "shove"
	EventIntervene GhostEvent = "intervene"
	EventSanctuary GhostEvent = "sanctuary"
)

// ghostEventOrder defines the enum ordinal used for deterministic
// tie-breaking during arbitration.
var ghostEventOrder = []GhostEvent{
	EventReveal,
	EventGaze,
	EventScream,
	EventShove,
	EventIntervene,
	EventSanctuary,
}

func ParseGhostEvent(s string) (GhostEvent, bool) {
	for _, ev := range ghostEventOrder {
		if GhostEvent(s) == ev {
			return ev, true
		}
	}
	return "", false
}

// Clue is a claimed sentence fragment together with the room it was
// retrieved from. The room matters: a dead holder's clues are released
// back into that room's slots.
type Clue struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Pin   string `json:"pin"`
	Role  Role   `json:"role"`
	Alive bool   `json:"alive"`
	Room  string `json:"room"`
	Clues []Clue `json:"clues"`
}

type MoveRecord struct {
	Round int    `json:"round"`
	Pin   string `json:"pin"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type VoteRecord struct {
	Round     int    `json:"round"`
	VoterPin  string `json:"voterPin"`
	TargetPin string `json:"targetPin"`
}

type KillReason string

const (
	KillDirect    KillReason = "direct"
	KillExecution KillReason = "execution"
)

type KillRecord struct {
	ID        string     `json:"id"`
	Round     int        `json:"round"`
	Room      string     `json:"room"`
	VictimPin string     `json:"victimPin"`
	Resolved  bool       `json:"resolved"`
	Reason    KillReason `json:"reason"`
}

type GhostVoteRecord struct {
	Round    int        `json:"round"`
	VoterPin string     `json:"voterPin"`
	Event    GhostEvent `json:"event"`
}

// EffectLatch is the two-stage flag for round effects: GM toggles and
// ghost arbitration write Armed, and only AdvanceRound promotes Armed
// into Active. Active lasts exactly one round.
type EffectLatch struct {
	Active bool `json:"active"`
	Armed  bool `json:"armed"`
}

func (l *EffectLatch) promote() {
	l.Active = l.Armed
	l.Armed = false
}

// Effects holds every round-scoped rule modifier. Latched fields flip
// only inside AdvanceRound; KillerClueVisibility is an immediate toggle.
type Effects struct {
	RevealDots    EffectLatch `json:"revealDots"`
	KillerGaze    EffectLatch `json:"killerGaze"`
	Scream        EffectLatch `json:"scream"`
	DeadIntervene EffectLatch `json:"deadIntervene"`
	Sanctuary     EffectLatch `json:"sanctuary"`

	SanctuaryRooms []string `json:"sanctuaryRooms,omitempty"`

	ShoveArmed bool `json:"shoveArmed"`
	ShoveRound int  `json:"shoveRound,omitempty"`

	KillerClueVisibility bool `json:"killerClueVisibility"`

	// ScreamRoom carries the announced kill location while scream is
	// active; cleared at the next round boundary.
	ScreamRoom string `json:"screamRoom,omitempty"`
}

func (e *Effects) sanctuaryActive(room string) bool {
	if !e.Sanctuary.Active {
		return false
	}
	for _, r := range e.SanctuaryRooms {
		if r == room {
			return true
		}
	}
	return false
}
