// Package members tracks member selection while picking users for a card.
package members

import (
	"fmt"

	"tboard/internal/service"
)

// Action is the result of clicking a member.
type Action string

const (
	Select   Action = "SELECT"
	UnSelect Action = "UN_SELECT"
)

// OnClick is invoked after a member's selection flips.
type OnClick func(pos int, user service.User, action Action)

// Picker holds candidate users and which of them are selected.
type Picker struct {
	users   []service.User
	onClick OnClick
}

// NewPicker marks the candidates whose id is in selected.
func NewPicker(candidates []service.User, selected []string) *Picker {
	in := make(map[string]bool, len(selected))
	for _, id := range selected {
		in[id] = true
	}
	users := make([]service.User, len(candidates))
	for i, u := range candidates {
		u.Selected = in[u.ID]
		users[i] = u
	}
	return &Picker{users: users}
}

// SetOnClick sets the click callback.
func (p *Picker) SetOnClick(fn OnClick) {
	p.onClick = fn
}

// Users returns the candidates with their current selection.
func (p *Picker) Users() []service.User {
	return append([]service.User(nil), p.users...)
}

// Find returns the position of the user with id.
func (p *Picker) Find(id string) (int, bool) {
	for i, u := range p.users {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Click toggles the user at pos and returns the action taken.
func (p *Picker) Click(pos int) (Action, error) {
	if pos < 0 || pos >= len(p.users) {
		return "", fmt.Errorf("no member at position %d", pos)
	}
	action := Select
	if p.users[pos].Selected {
		action = UnSelect
	}
	p.users[pos].Selected = action == Select
	if p.onClick != nil {
		p.onClick(pos, p.users[pos], action)
	}
	return action, nil
}

// Apply returns assigned updated for action on id. SELECT appends id if it is
// missing; UN_SELECT removes it.
func Apply(assigned []string, id string, action Action) []string {
	out := make([]string, 0, len(assigned)+1)
	found := false
	for _, a := range assigned {
		if a == id {
			found = true
			if action == UnSelect {
				continue
			}
		}
		out = append(out, a)
	}
	if action == Select && !found {
		out = append(out, id)
	}
	return out
}
