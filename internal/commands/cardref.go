package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tboard/internal/board"
	"tboard/internal/service"
)

// CardRef is a parsed card reference. List and Card are 0-based.
type CardRef struct {
	List int
	Card int
}

// ErrCardRefRequired indicates no card reference was provided.
var ErrCardRefRequired = errors.New("card reference required")

// ParseCardRef parses a card reference from args and returns the number of
// args consumed.
//
// Accepted forms, both 1-based:
//   - "2.3"   list 2, card 3
//   - "2 3"   the same, as two args
func ParseCardRef(args []string) (CardRef, int, error) {
	if len(args) == 0 {
		return CardRef{}, 0, ErrCardRefRequired
	}

	first := args[0]
	if l, c, ok := strings.Cut(first, "."); ok {
		ref, err := newCardRef(l, c)
		if err != nil {
			return CardRef{}, 0, fmt.Errorf("invalid card reference: %s", first)
		}
		return ref, 1, nil
	}

	if !isAllDigits(first) {
		return CardRef{}, 0, fmt.Errorf("invalid card reference: %s", first)
	}
	if len(args) < 2 {
		return CardRef{}, 0, ErrCardRefRequired
	}
	ref, err := newCardRef(first, args[1])
	if err != nil {
		return CardRef{}, 0, fmt.Errorf("invalid card reference: %s %s", first, args[1])
	}
	return ref, 2, nil
}

func newCardRef(list, card string) (CardRef, error) {
	if !isAllDigits(list) || !isAllDigits(card) {
		return CardRef{}, errors.New("not a number")
	}
	l, err := strconv.Atoi(list)
	if err != nil {
		return CardRef{}, err
	}
	c, err := strconv.Atoi(card)
	if err != nil {
		return CardRef{}, err
	}
	if l < 1 || c < 1 {
		return CardRef{}, errors.New("numbers start at 1")
	}
	return CardRef{List: l - 1, Card: c - 1}, nil
}

// String formats the reference the way show prints it.
func (r CardRef) String() string {
	return fmt.Sprintf("%d.%d", r.List+1, r.Card+1)
}

// Lookup returns the referenced list and card from d.
func (r CardRef) Lookup(d board.Display) (service.TaskList, service.Card, error) {
	l, err := d.List(r.List)
	if err != nil {
		return service.TaskList{}, service.Card{}, err
	}
	if r.Card >= len(l.Cards) {
		return service.TaskList{}, service.Card{}, &board.IndexError{Pos: r.Card, Len: len(l.Cards)}
	}
	return l, l.Cards[r.Card], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
