package board

import "tboard/internal/service"

// Editor turns a displayed board plus one command into the task list sequence
// to persist. It never modifies the Display it is given.
type Editor struct {
	actor string
}

// NewEditor returns an editor that stamps actor as the creator of new lists
// and cards.
func NewEditor(actor string) Editor {
	return Editor{actor: actor}
}

// Actor returns the user id new lists and cards are created by.
func (e Editor) Actor() string {
	return e.actor
}

// AppendList puts a new empty list first. The result has as many entries as
// the display has slots.
func (e Editor) AppendList(d Display, title string) ([]service.TaskList, error) {
	if err := service.Required("a list name", title); err != nil {
		return nil, err
	}
	lists := make([]service.TaskList, 0, len(d.lists)+1)
	lists = append(lists, service.TaskList{Title: title, CreatedBy: e.actor})
	return append(lists, d.Lists()...), nil
}

// ReplaceList renames the list at pos. Creator and cards come from template,
// so renaming a list keeps its cards instead of starting it empty.
func (e Editor) ReplaceList(d Display, pos int, title string, template service.TaskList) ([]service.TaskList, error) {
	if err := d.checkPos(pos); err != nil {
		return nil, err
	}
	if err := service.Required("a list name", title); err != nil {
		return nil, err
	}
	lists := d.Lists()
	lists[pos] = service.TaskList{
		Title:     title,
		CreatedBy: template.CreatedBy,
		Cards:     cloneCards(template.Cards),
	}
	return lists, nil
}

// RemoveList drops the list at pos.
func (e Editor) RemoveList(d Display, pos int) ([]service.TaskList, error) {
	if err := d.checkPos(pos); err != nil {
		return nil, err
	}
	lists := d.Lists()
	return append(lists[:pos], lists[pos+1:]...), nil
}

// AppendCard adds a card assigned to the actor at the end of the list at pos.
func (e Editor) AppendCard(d Display, pos int, title string) ([]service.TaskList, error) {
	if err := d.checkPos(pos); err != nil {
		return nil, err
	}
	if err := service.Required("a card name", title); err != nil {
		return nil, err
	}
	lists := d.Lists()
	l := lists[pos]
	cards := append(l.Cards, service.Card{
		Title:      title,
		CreatedBy:  e.actor,
		AssignedTo: []string{e.actor},
	})
	lists[pos] = service.TaskList{Title: l.Title, CreatedBy: l.CreatedBy, Cards: cards}
	return lists, nil
}

// ReplaceCards sets the cards of the list at pos. Nothing else changes.
func (e Editor) ReplaceCards(d Display, pos int, cards []service.Card) ([]service.TaskList, error) {
	if err := d.checkPos(pos); err != nil {
		return nil, err
	}
	lists := d.Lists()
	lists[pos].Cards = cloneCards(cards)
	return lists, nil
}
