package game

// The house layout. WHISPERING HALL is the hub connecting the upper
// floor; THE UNDERHOUSE gates the lower rooms. Adjacency happens to be
// symmetric in this configuration but nothing relies on that.
const (
	RoomWhisperingHall = "WHISPERING HALL"
	RoomStudy          = "THE FLICKERING LAMP STUDY"
	RoomBedroom        = "THE SILENT BEDROOM"
	RoomParlor         = "PARLOR OF ECHOES"
	RoomKitchen        = "THE BLOOD-STAINED KITCHEN"
	RoomUnderhouse     = "THE UNDERHOUSE"
	RoomCellar         = "FORGOTTEN CELLAR"
	RoomIronChamber    = "THE IRON CHAMBER"
)

const StartRoom = RoomWhisperingHall

// RoomGraph answers adjacency queries over the fixed room set. The room
// order is the deal order for clue slots, so it is part of the contract.
type RoomGraph struct {
	order []string
	edges map[string][]string
}

func HouseGraph() *RoomGraph {
	return &RoomGraph{
		order: []string{
			RoomWhisperingHall,
			RoomStudy,
			RoomBedroom,
			RoomParlor,
			RoomKitchen,
			RoomUnderhouse,
			RoomCellar,
			RoomIronChamber,
		},
		edges: map[string][]string{
			RoomWhisperingHall: {RoomStudy, RoomBedroom, RoomParlor, RoomKitchen, RoomUnderhouse},
			RoomStudy:          {RoomWhisperingHall, RoomBedroom},
			RoomBedroom:        {RoomWhisperingHall, RoomStudy, RoomParlor},
			RoomParlor:         {RoomWhisperingHall, RoomBedroom, RoomKitchen},
			RoomKitchen:        {RoomWhisperingHall, RoomParlor},
			RoomUnderhouse:     {RoomWhisperingHall, RoomCellar, RoomIronChamber},
			RoomCellar:         {RoomUnderhouse, RoomIronChamber},
			RoomIronChamber:    {RoomUnderhouse, RoomCellar},
		},
	}
}

// Rooms returns the enumeration order.
func (g *RoomGraph) Rooms() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *RoomGraph) Contains(room string) bool {
	_, ok := g.edges[room]
	return ok
}

// Neighbors returns the ordered adjacency of room; unknown rooms yield
// an empty set.
func (g *RoomGraph) Neighbors(room string) []string {
	adj := g.edges[room]
	out := make([]string, len(adj))
	copy(out, adj)
	return out
}

func (g *RoomGraph) Adjacent(from, to string) bool {
	for _, r := range g.edges[from] {
		if r == to {
			return true
		}
	}
	return false
}

func (g *RoomGraph) Description(room string) string {
	switch room {
	case RoomCellar:
		return "Moist air, dripping pipes, and footprints that don't match anyone still alive. Something down here moves, but never waits to be seen."
	case RoomUnderhouse:
		return "The house breathes down here. Wooden beams groan like they're holding in secrets, or bodies. It feels wrong to speak in case something hears you."
	case RoomIronChamber:
		return "Cold metal. No windows. Your voice sounds swallowed. Chains hang loosely, swinging slightly, though there's no draft. Were they just used?"
	case RoomKitchen:
		return "No smell of food. Just iron. The stains are old, but still wet in places, as if someone keeps adding to them."
	case RoomStudy:
		return "The lamp flickers, though the air is still. Papers rustle and pages turn without wind, and without anyone touching them."
	case RoomParlor:
		return "You hear footsteps, but they're perfectly delayed, like a second version of you is walking just behind, where you never dare to look."
	case RoomWhisperingHall:
		return "The whispers aren't from ghosts. They're gossiping about the last kill. They repeat a single name, over and over, until you realize it's yours."
	case RoomBedroom:
		return "The pillow still holds the shape of a head, and a dark stain where it stopped breathing. The room is silent because what happened here was loud."
	default:
		return "Something about this room feels wrong, like you arrived a moment too late."
	}
}
