// Package board keeps a board's task lists editable while they are displayed
// with a trailing add-list affordance.
package board

import "tboard/internal/service"

// AddListTitle is the text rendered for the add-list slot.
const AddListTitle = "+ Add List"

// Slot is one entry of a displayed board: either a real task list or the
// add-list affordance.
type Slot struct {
	list    service.TaskList
	addList bool
}

// ListSlot wraps a real task list.
func ListSlot(l service.TaskList) Slot {
	return Slot{list: cloneList(l)}
}

// AddListSlot returns the add-list affordance.
func AddListSlot() Slot {
	return Slot{addList: true}
}

// IsAddList reports whether s is the add-list affordance.
func (s Slot) IsAddList() bool {
	return s.addList
}

// List returns the wrapped task list. ok is false for the add-list slot.
func (s Slot) List() (l service.TaskList, ok bool) {
	if s.addList {
		return service.TaskList{}, false
	}
	return cloneList(s.list), true
}

// Title returns the list title, or AddListTitle for the affordance.
func (s Slot) Title() string {
	if s.addList {
		return AddListTitle
	}
	return s.list.Title
}

// Display is the sequence handed to the rendering layer. It always ends with
// exactly one add-list slot; the zero value is an empty board's display.
type Display struct {
	lists []service.TaskList
}

// PrepareForDisplay builds the displayed sequence for freshly fetched lists.
func PrepareForDisplay(lists []service.TaskList) Display {
	return Display{lists: cloneLists(lists)}
}

// Slots returns the displayed sequence, add-list slot last.
func (d Display) Slots() []Slot {
	slots := make([]Slot, 0, len(d.lists)+1)
	for _, l := range d.lists {
		slots = append(slots, ListSlot(l))
	}
	return append(slots, AddListSlot())
}

// Len returns the number of slots including the add-list slot.
func (d Display) Len() int {
	return len(d.lists) + 1
}

// Lists returns the real task lists without the add-list slot. The result is
// what may be persisted.
func (d Display) Lists() []service.TaskList {
	return cloneLists(d.lists)
}

// List returns a copy of the real list at pos.
func (d Display) List(pos int) (service.TaskList, error) {
	if err := d.checkPos(pos); err != nil {
		return service.TaskList{}, err
	}
	return cloneList(d.lists[pos]), nil
}

func (d Display) checkPos(pos int) error {
	if pos < 0 || pos >= len(d.lists) {
		return &IndexError{Pos: pos, Len: len(d.lists)}
	}
	return nil
}

func cloneLists(lists []service.TaskList) []service.TaskList {
	if lists == nil {
		return nil
	}
	out := make([]service.TaskList, len(lists))
	for i, l := range lists {
		out[i] = cloneList(l)
	}
	return out
}

func cloneList(l service.TaskList) service.TaskList {
	l.Cards = cloneCards(l.Cards)
	return l
}

func cloneCards(cards []service.Card) []service.Card {
	if cards == nil {
		return nil
	}
	out := make([]service.Card, len(cards))
	for i, c := range cards {
		c.AssignedTo = append([]string(nil), c.AssignedTo...)
		out[i] = c
	}
	return out
}
