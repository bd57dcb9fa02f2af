package board

import "tboard/internal/service"

// RemoveCard returns cards without the card at i.
func RemoveCard(cards []service.Card, i int) ([]service.Card, error) {
	if i < 0 || i >= len(cards) {
		return nil, &IndexError{Pos: i, Len: len(cards)}
	}
	out := cloneCards(cards)
	return append(out[:i], out[i+1:]...), nil
}

// MoveCard returns cards with the card at from moved to position to.
func MoveCard(cards []service.Card, from, to int) ([]service.Card, error) {
	if from < 0 || from >= len(cards) {
		return nil, &IndexError{Pos: from, Len: len(cards)}
	}
	if to < 0 || to >= len(cards) {
		return nil, &IndexError{Pos: to, Len: len(cards)}
	}
	out := cloneCards(cards)
	c := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]service.Card{c}, out[to:]...)...)
	return out, nil
}

// UpdateCard returns cards with the card at i replaced by fn's result.
func UpdateCard(cards []service.Card, i int, fn func(service.Card) service.Card) ([]service.Card, error) {
	if i < 0 || i >= len(cards) {
		return nil, &IndexError{Pos: i, Len: len(cards)}
	}
	out := cloneCards(cards)
	out[i] = fn(out[i])
	return out, nil
}
