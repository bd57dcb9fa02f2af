package board

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tboard/internal/service"
)

var allowDisplay = cmp.AllowUnexported(Display{}, Slot{})

func lists(titles ...string) []service.TaskList {
	out := make([]service.TaskList, len(titles))
	for i, t := range titles {
		out[i] = service.TaskList{Title: t, CreatedBy: "u0"}
	}
	return out
}

func hasAddList(lists []service.TaskList) bool {
	for _, l := range lists {
		if l.Title == AddListTitle {
			return true
		}
	}
	return false
}

func TestPrepareForDisplay_EndsWithOneAddListSlot(t *testing.T) {
	for _, in := range [][]service.TaskList{nil, lists("A"), lists("A", "B", "C")} {
		slots := PrepareForDisplay(in).Slots()
		if len(slots) != len(in)+1 {
			t.Fatalf("expected %d slots, got %d", len(in)+1, len(slots))
		}
		if !slots[len(slots)-1].IsAddList() {
			t.Errorf("last slot is not the add-list slot")
		}
		for i, s := range slots[:len(slots)-1] {
			if s.IsAddList() {
				t.Errorf("slot %d is an add-list slot", i)
			}
		}
	}
}

func TestPrepareForDisplay_RoundTrip(t *testing.T) {
	d := PrepareForDisplay(lists("A", "B"))
	again := PrepareForDisplay(d.Lists())
	if diff := cmp.Diff(d, again, allowDisplay); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareForDisplay_CopiesInput(t *testing.T) {
	in := []service.TaskList{{Title: "A", Cards: []service.Card{{Title: "c", AssignedTo: []string{"u1"}}}}}
	d := PrepareForDisplay(in)
	in[0].Title = "changed"
	in[0].Cards[0].AssignedTo[0] = "u2"

	l, err := d.List(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Title != "A" || l.Cards[0].AssignedTo[0] != "u1" {
		t.Errorf("display shares memory with its input: %+v", l)
	}
}

func TestSlot_Title(t *testing.T) {
	if got := AddListSlot().Title(); got != AddListTitle {
		t.Errorf("expected %q, got %q", AddListTitle, got)
	}
	if _, ok := AddListSlot().List(); ok {
		t.Errorf("add-list slot should not hold a list")
	}
	if got := ListSlot(service.TaskList{Title: "Todo"}).Title(); got != "Todo" {
		t.Errorf("expected %q, got %q", "Todo", got)
	}
}

// Scenario: prepending a list to Backlog/Done.
func TestAppendList(t *testing.T) {
	d := PrepareForDisplay([]service.TaskList{{Title: "Backlog"}, {Title: "Done"}})

	got, err := NewEditor("u1").AppendList(d, "Todo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.TaskList{
		{Title: "Todo", CreatedBy: "u1"},
		{Title: "Backlog"},
		{Title: "Done"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if len(got) != d.Len() {
		t.Errorf("expected %d lists, got %d", d.Len(), len(got))
	}
}

func TestAppendList_EmptyTitle(t *testing.T) {
	d := PrepareForDisplay(lists("A"))
	_, err := NewEditor("u1").AppendList(d, "  ")
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// Scenario: adding a card to the only list.
func TestAppendCard(t *testing.T) {
	d := PrepareForDisplay([]service.TaskList{{Title: "Backlog"}})

	got, err := NewEditor("u1").AppendCard(d, 0, "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.TaskList{{
		Title: "Backlog",
		Cards: []service.Card{{Title: "Buy milk", CreatedBy: "u1", AssignedTo: []string{"u1"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if len(got) != d.Len()-1 {
		t.Errorf("expected %d lists, got %d", d.Len()-1, len(got))
	}
}

func TestAppendCard_KeepsExistingCards(t *testing.T) {
	d := PrepareForDisplay([]service.TaskList{{
		Title:     "Todo",
		CreatedBy: "u2",
		Cards:     []service.Card{{Title: "first", CreatedBy: "u2"}},
	}})

	got, err := NewEditor("u1").AppendCard(d, 0, "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].CreatedBy != "u2" || got[0].Title != "Todo" {
		t.Errorf("list header changed: %+v", got[0])
	}
	if len(got[0].Cards) != 2 || got[0].Cards[1].Title != "second" {
		t.Errorf("unexpected cards: %+v", got[0].Cards)
	}
	l, _ := d.List(0)
	if len(l.Cards) != 1 {
		t.Errorf("display was modified: %+v", l.Cards)
	}
}

// Scenario: removing the middle of three lists.
func TestRemoveList(t *testing.T) {
	d := PrepareForDisplay([]service.TaskList{{Title: "A"}, {Title: "B"}, {Title: "C"}})

	got, err := NewEditor("u1").RemoveList(d, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.TaskList{{Title: "A"}, {Title: "C"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveList_LastRealList(t *testing.T) {
	d := PrepareForDisplay(lists("Only"))
	got, err := NewEditor("u1").RemoveList(d, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no lists, got %+v", got)
	}
	if PrepareForDisplay(got).Len() != 1 {
		t.Errorf("expected only the add-list slot")
	}
}

// Scenario: out-of-range rename leaves the display untouched.
func TestReplaceList_OutOfRange(t *testing.T) {
	d := PrepareForDisplay(lists("A", "B"))
	before := PrepareForDisplay(d.Lists())

	for _, pos := range []int{-1, 2, 3, 100} {
		_, err := NewEditor("u1").ReplaceList(d, pos, "X", service.TaskList{})
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("pos %d: expected ErrIndexOutOfRange, got %v", pos, err)
		}
	}
	if diff := cmp.Diff(before, d, allowDisplay); diff != "" {
		t.Errorf("display changed (-want +got):\n%s", diff)
	}
}

func TestReplaceList_KeepsTemplateCreatorAndCards(t *testing.T) {
	template := service.TaskList{
		Title:     "Old",
		CreatedBy: "owner",
		Cards:     []service.Card{{Title: "c1"}},
	}
	d := PrepareForDisplay([]service.TaskList{template, {Title: "Other"}})

	got, err := NewEditor("u1").ReplaceList(d, 0, "New", template)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.TaskList{
		{Title: "New", CreatedBy: "owner", Cards: []service.Card{{Title: "c1"}}},
		{Title: "Other"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceCards_OnlyTouchesTargetCards(t *testing.T) {
	orig := []service.TaskList{
		{Title: "A", CreatedBy: "u1", Cards: []service.Card{{Title: "a1"}}},
		{Title: "B", CreatedBy: "u2", Cards: []service.Card{{Title: "b1"}, {Title: "b2"}}},
	}
	d := PrepareForDisplay(orig)
	cards := []service.Card{{Title: "b2"}, {Title: "b1"}}

	got, err := NewEditor("u3").ReplaceCards(d, 1, cards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.TaskList{orig[0], {Title: "B", CreatedBy: "u2", Cards: cards}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_AddListSlotIsNotAddressable(t *testing.T) {
	d := PrepareForDisplay(lists("A", "B"))
	addPos := d.Len() - 1
	ed := NewEditor("u1")

	ops := map[string]func() error{
		"RemoveList": func() error { _, err := ed.RemoveList(d, addPos); return err },
		"AppendCard": func() error { _, err := ed.AppendCard(d, addPos, "x"); return err },
		"ReplaceCards": func() error {
			_, err := ed.ReplaceCards(d, addPos, nil)
			return err
		},
		"ReplaceList": func() error {
			_, err := ed.ReplaceList(d, addPos, "x", service.TaskList{})
			return err
		},
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: expected ErrIndexOutOfRange, got %v", name, err)
		}
	}
}

func TestEditor_RandomizedCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ed := NewEditor("u1")

	for i := 0; i < 200; i++ {
		n := rng.Intn(6)
		in := make([]service.TaskList, n)
		for j := range in {
			in[j] = service.TaskList{Title: fmt.Sprintf("L%d", j)}
			for k := rng.Intn(3); k > 0; k-- {
				in[j].Cards = append(in[j].Cards, service.Card{Title: fmt.Sprintf("c%d", k)})
			}
		}
		d := PrepareForDisplay(in)
		before := PrepareForDisplay(d.Lists())

		got, err := ed.AppendList(d, "New")
		if err != nil || len(got) != d.Len() || hasAddList(got) {
			t.Fatalf("AppendList on %d lists: len %d, err %v", n, len(got), err)
		}

		if n > 0 {
			pos := rng.Intn(n)
			got, err = ed.RemoveList(d, pos)
			if err != nil || len(got) != d.Len()-2 || hasAddList(got) {
				t.Fatalf("RemoveList(%d) on %d lists: len %d, err %v", pos, n, len(got), err)
			}
			got, err = ed.AppendCard(d, pos, "card")
			if err != nil || len(got) != d.Len()-1 || hasAddList(got) {
				t.Fatalf("AppendCard(%d) on %d lists: len %d, err %v", pos, n, len(got), err)
			}
		}

		if diff := cmp.Diff(before, d, allowDisplay); diff != "" {
			t.Fatalf("display changed (-want +got):\n%s", diff)
		}
	}
}
