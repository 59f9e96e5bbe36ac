package game

import "math/rand"

// RosterStore is the player registry, keyed by sequential id and by a
// 2-digit join pin unique among current players.
type RosterStore struct {
	players []*Player
	nextID  int
}

func NewRosterStore() *RosterStore {
	return &RosterStore{nextID: 1}
}

func (r *RosterStore) Players() []*Player { return r.players }

// Register admits a new player. Late joins are blocked once the first
// round has completed so that role assignment stays fair.
func (r *RosterStore) Register(name string, round int) (*Player, error) {
	if name == "" {
		return nil, validationf("Name is required.")
	}
	if round >= 2 {
		return nil, timingf("Registration is closed; the house is already hunting.")
	}

	p := &Player{
		ID:    r.nextID,
		Name:  name,
		Pin:   r.generatePin(),
		Role:  RoleUnknown,
		Alive: true,
		Room:  StartRoom,
	}
	r.nextID++
	r.players = append(r.players, p)
	return p, nil
}

func (r *RosterStore) generatePin() string {
	for {
		pin := twoDigitPin()
		if _, err := r.FindByPin(pin); err != nil {
			return pin
		}
	}
}

func twoDigitPin() string {
	n := rand.Intn(90) + 10 // 10-99
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func (r *RosterStore) FindByPin(pin string) (*Player, error) {
	for _, p := range r.players {
		if p.Pin == pin {
			return p, nil
		}
	}
	return nil, notFoundf("Player not found.")
}

func (r *RosterStore) FindByID(id int) (*Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, notFoundf("Player not found.")
}

// Remove deletes a player only when both id and pin match, as a guard
// against GM typos. The caller cascades ledger cleanup.
func (r *RosterStore) Remove(id int, pin string) (*Player, error) {
	for i, p := range r.players {
		if p.ID == id && p.Pin == pin {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p, nil
		}
	}
	return nil, notFoundf("Player not found.")
}

// RandomizeRoles makes every living player a Victim, then promotes one
// uniformly at random to Killer.
func (r *RosterStore) RandomizeRoles() error {
	living := r.Living()
	if len(living) == 0 {
		return validationf("No players to assign roles.")
	}
	for _, p := range living {
		p.Role = RoleVictim
	}
	living[rand.Intn(len(living))].Role = RoleKiller
	return nil
}

func (r *RosterStore) Living() []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (r *RosterStore) LivingVictims() []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.Alive && p.Role == RoleVictim {
			out = append(out, p)
		}
	}
	return out
}

func (r *RosterStore) LivingInRoom(room string) []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.Alive && p.Room == room {
			out = append(out, p)
		}
	}
	return out
}

func (r *RosterStore) DeadInRoom(room string) []*Player {
	var out []*Player
	for _, p := range r.players {
		if !p.Alive && p.Room == room {
			out = append(out, p)
		}
	}
	return out
}
