package game

import (
	"strings"
	"testing"
)

func TestChunkFragmentsEvenSplit(t *testing.T) {
	words := strings.Fields("THE BUTLER HID THE KNIFE IN THE WALL")
	fragments := chunkFragments(words, 16)

	if len(fragments) != 8 {
		t.Fatalf("expected 8 fragments for 8 words, got %d", len(fragments))
	}
	for i, f := range fragments {
		if len(strings.Fields(f)) != 1 {
			t.Fatalf("fragment %d should be a single word, got %q", i, f)
		}
	}
}

func TestChunkFragmentsRemainderToEarliest(t *testing.T) {
	words := strings.Fields("a b c d e f g h i j k l m n o p q r s t")
	fragments := chunkFragments(words, 16)

	if len(fragments) != 16 {
		t.Fatalf("expected 16 fragments for 20 words, got %d", len(fragments))
	}
	// 20 words into 16 chunks: the first four carry two words each.
	for i := 0; i < 4; i++ {
		if len(strings.Fields(fragments[i])) != 2 {
			t.Fatalf("fragment %d should carry the remainder, got %q", i, fragments[i])
		}
	}
	for i := 4; i < 16; i++ {
		if len(strings.Fields(fragments[i])) != 1 {
			t.Fatalf("fragment %d should be a single word, got %q", i, fragments[i])
		}
	}
	// Order is preserved before the shuffle step.
	if fragments[0] != "a b" || fragments[15] != "t" {
		t.Fatalf("unexpected chunk boundaries: %v", fragments)
	}
}

func TestLoadDealsTwoPerRoomInOrder(t *testing.T) {
	bank := NewClueBank(HouseGraph())
	if err := bank.Load("THE BUTLER HID THE KNIFE IN THE WALL"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if bank.Total() != 8 {
		t.Fatalf("expected 8 fragments, got %d", bank.Total())
	}

	rooms := HouseGraph().Rooms()
	// Eight fragments fill the first four rooms, two slots each; the
	// remaining rooms keep empty slots.
	for i, room := range rooms {
		got := len(bank.Unclaimed(room))
		want := 0
		if i < 4 {
			want = 2
		}
		if got != want {
			t.Fatalf("room %s: expected %d unclaimed fragments, got %d", room, want, got)
		}
	}
}

func TestLoadRejectsEmptySentence(t *testing.T) {
	bank := NewClueBank(HouseGraph())
	err := bank.Load("   ")
	if err == nil {
		t.Fatal("expected rejection for empty sentence")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation rejection, got %v", KindOf(err))
	}
}

func TestClaimIsScarce(t *testing.T) {
	bank := NewClueBank(HouseGraph())
	if err := bank.Load("one two"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	room := HouseGraph().Rooms()[0]

	first, ok := bank.Claim(room)
	if !ok {
		t.Fatal("first claim should succeed")
	}
	if _, ok := bank.Claim(room); !ok {
		t.Fatal("second claim should succeed")
	}
	if _, ok := bank.Claim(room); ok {
		t.Fatal("third claim should fail, slots never replenish")
	}

	bank.Release(room, first)
	got, ok := bank.Claim(room)
	if !ok || got != first {
		t.Fatalf("release should restore the fragment, got %q ok=%v", got, ok)
	}
}

func TestConservationAcrossClaimAndRelease(t *testing.T) {
	bank := NewClueBank(HouseGraph())
	if err := bank.Load("a b c d e f g h i j k l m n o p"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	total := bank.Total()
	if total != 16 {
		t.Fatalf("expected all 16 slots filled, got %d", total)
	}

	var held []Clue
	for _, room := range HouseGraph().Rooms() {
		if text, ok := bank.Claim(room); ok {
			held = append(held, Clue{Room: room, Text: text})
		}
	}
	if bank.UnclaimedCount()+len(held) != total {
		t.Fatalf("conservation broken after claims: %d + %d != %d",
			bank.UnclaimedCount(), len(held), total)
	}

	for _, c := range held {
		bank.Release(c.Room, c.Text)
	}
	if bank.UnclaimedCount() != total {
		t.Fatalf("conservation broken after releases: %d != %d", bank.UnclaimedCount(), total)
	}
}
