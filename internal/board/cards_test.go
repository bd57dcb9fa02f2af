package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tboard/internal/service"
)

func cards(titles ...string) []service.Card {
	out := make([]service.Card, len(titles))
	for i, t := range titles {
		out[i] = service.Card{Title: t}
	}
	return out
}

func TestMoveCard(t *testing.T) {
	tests := []struct {
		from, to int
		want     []service.Card
	}{
		{0, 2, cards("b", "c", "a")},
		{2, 0, cards("c", "a", "b")},
		{1, 1, cards("a", "b", "c")},
		{1, 2, cards("a", "c", "b")},
	}

	for _, tt := range tests {
		in := cards("a", "b", "c")
		got, err := MoveCard(in, tt.from, tt.to)
		if err != nil {
			t.Fatalf("MoveCard(%d, %d): %v", tt.from, tt.to, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("MoveCard(%d, %d) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
		}
		if diff := cmp.Diff(cards("a", "b", "c"), in); diff != "" {
			t.Errorf("input modified:\n%s", diff)
		}
	}
}

func TestMoveCard_OutOfRange(t *testing.T) {
	if _, err := MoveCard(cards("a"), 0, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := MoveCard(cards("a"), -1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemoveCard(t *testing.T) {
	got, err := RemoveCard(cards("a", "b", "c"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(cards("a", "c"), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := RemoveCard(nil, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestUpdateCard(t *testing.T) {
	in := []service.Card{{Title: "a", AssignedTo: []string{"u1"}}}
	got, err := UpdateCard(in, 0, func(c service.Card) service.Card {
		c.LabelColor = "#F72400"
		c.AssignedTo[0] = "u2"
		return c
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].LabelColor != "#F72400" || got[0].AssignedTo[0] != "u2" {
		t.Errorf("unexpected card: %+v", got[0])
	}
	if in[0].AssignedTo[0] != "u1" {
		t.Errorf("input modified: %+v", in[0])
	}
}

func TestNormalizeLabelColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#43C86F", "#43C86F", true},
		{"43c86f", "#43C86F", true},
		{" #0c90f1 ", "#0C90F1", true},
		{"", "", true},
		{"#FFFFFF", "", false},
		{"red", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeLabelColor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeLabelColor(%q) = %q, %v; expected %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
