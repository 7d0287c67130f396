package play

import (
	"testing"

	"github.com/louisbranch/ontsnapping/internal/game/room"
)

func TestDescribeLocalizesEveryRoom(t *testing.T) {
	t.Parallel()

	for _, locale := range []string{"en-US", "nl-NL"} {
		for _, id := range room.Default().IDs() {
			current, err := room.Default().Get(id)
			if err != nil {
				t.Fatalf("get %q: %v", id, err)
			}
			text := Describe(locale, current)
			if text.Title == "" || text.Description == "" {
				t.Fatalf("%s/%s: empty text %+v", locale, id, text)
			}
			if current.Terminal() && text.Prompt != "" {
				t.Fatalf("%s/%s: terminal room has prompt %q", locale, id, text.Prompt)
			}
			if !current.Terminal() && text.Prompt == "" {
				t.Fatalf("%s/%s: missing prompt", locale, id)
			}
		}
	}
}

func TestDescribeUsesLocale(t *testing.T) {
	t.Parallel()

	cell, _ := room.Default().Get(room.Cell)
	if got := Describe("nl-NL", cell).Title; got != "Cel" {
		t.Fatalf("nl title = %q, want %q", got, "Cel")
	}
	if got := Describe("en-US", cell).Title; got != "Cell" {
		t.Fatalf("en title = %q, want %q", got, "Cell")
	}
}

func TestDescribeFallsBackToCanonicalText(t *testing.T) {
	t.Parallel()

	attic := room.New("attic", "Zolder", "Stoffig.", nil)
	text := Describe("en-US", attic)
	if text.Title != "Zolder" || text.Description != "Stoffig." || text.Prompt != "" {
		t.Fatalf("text = %+v, want canonical copy", text)
	}
}
