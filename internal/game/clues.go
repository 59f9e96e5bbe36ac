package game

import (
	"math/rand"
	"strings"
)

const slotsPerRoom = 2

// ClueBank holds the per-room fragment slots cut from the secret
// sentence. A fragment instance lives in exactly one place at any time:
// an open room slot or some player's claimed list. An empty string marks
// an open-but-unfilled slot.
type ClueBank struct {
	graph    *RoomGraph
	sentence string
	total    int
	slots    map[string][]string
}

func NewClueBank(graph *RoomGraph) *ClueBank {
	return &ClueBank{graph: graph, slots: map[string][]string{}}
}

func (b *ClueBank) Loaded() bool { return b.total > 0 }

func (b *ClueBank) Sentence() string { return b.sentence }

func (b *ClueBank) Total() int { return b.total }

// Load cuts the sentence into fragments and deals two per room in room
// order. Fragment order is randomized before the deal; rooms beyond the
// supply keep empty slots.
func (b *ClueBank) Load(sentence string) error {
	cleaned := strings.Join(strings.Fields(sentence), " ")
	if cleaned == "" {
		return validationf("Secret sentence cannot be empty.")
	}

	words := strings.Split(cleaned, " ")
	fragments := chunkFragments(words, len(b.graph.Rooms())*slotsPerRoom)

	rand.Shuffle(len(fragments), func(i, j int) {
		fragments[i], fragments[j] = fragments[j], fragments[i]
	})

	b.sentence = cleaned
	b.total = len(fragments)
	b.slots = map[string][]string{}

	idx := 0
	for _, room := range b.graph.Rooms() {
		slots := make([]string, slotsPerRoom)
		for i := range slots {
			if idx < len(fragments) {
				slots[i] = fragments[idx]
				idx++
			}
		}
		b.slots[room] = slots
	}
	return nil
}

// chunkFragments splits words into at most maxFragments pieces of
// as-equal-as-possible length, handing remainder words to the earliest
// pieces. Deterministic; the shuffle happens afterwards.
func chunkFragments(words []string, maxFragments int) []string {
	count := maxFragments
	if len(words) < count {
		count = len(words)
	}
	if count <= 0 {
		return nil
	}

	fragments := make([]string, 0, count)
	base := len(words) / count
	remainder := len(words) % count
	idx := 0
	for i := 0; i < count; i++ {
		size := base
		if remainder > 0 {
			size++
			remainder--
		}
		fragments = append(fragments, strings.Join(words[idx:idx+size], " "))
		idx += size
	}
	return fragments
}

// Unclaimed returns the fragments still sitting in the room's slots.
func (b *ClueBank) Unclaimed(room string) []string {
	var out []string
	for _, s := range b.slots[room] {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (b *ClueBank) UnclaimedCount() int {
	n := 0
	for _, room := range b.graph.Rooms() {
		n += len(b.Unclaimed(room))
	}
	return n
}

// Claim takes the first unclaimed fragment out of the room. Slots never
// replenish on their own; only Release refills them.
func (b *ClueBank) Claim(room string) (string, bool) {
	slots := b.slots[room]
	for i, s := range slots {
		if s != "" {
			slots[i] = ""
			return s, true
		}
	}
	return "", false
}

// Release puts a fragment back into the room's first open slot, used
// when a clue holder dies or is demoted.
func (b *ClueBank) Release(room, text string) {
	slots := b.slots[room]
	for i, s := range slots {
		if s == "" {
			slots[i] = text
			return
		}
	}
}
