// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tboard/internal/board"
	"tboard/internal/service"
)

const (
	// Separator is the separator line around a board header.
	Separator = "------------"
)

// FormatBoardHeader formats the header of the show command.
func FormatBoardHeader(w io.Writer, b service.Board) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeTitle(b.Name))
	fmt.Fprintln(w, Separator)
}

// FormatSlot formats one displayed slot: a numbered list with its cards, or
// the add-list affordance.
// names maps member ids to display names for card assignees.
func FormatSlot(w io.Writer, num int, s board.Slot, names map[string]string) {
	l, ok := s.List()
	if !ok {
		fmt.Fprintf(w, "%4s  %s\n", "+", s.Title())
		return
	}
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(l.Title))
	for i, c := range l.Cards {
		FormatCard(w, fmt.Sprintf("%d.%d", num, i+1), c, names)
	}
}

// FormatCard formats a card line.
// Format: "    {REF:>6}  {TITLE}[ [LABEL]][ (MEMBERS)]\n"
func FormatCard(w io.Writer, ref string, c service.Card, names map[string]string) {
	var b strings.Builder
	b.WriteString(normalizeTitle(c.Title))
	if c.LabelColor != "" {
		fmt.Fprintf(&b, " [%s]", c.LabelColor)
	}
	if len(c.AssignedTo) > 0 {
		who := make([]string, len(c.AssignedTo))
		for i, id := range c.AssignedTo {
			who[i] = memberName(id, names)
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(who, ", "))
	}
	fmt.Fprintf(w, "    %6s  %s\n", ref, b.String())
}

// FormatBoardName formats a board line for the boards command.
func FormatBoardName(w io.Writer, b service.Board) {
	fmt.Fprintf(w, "%s  [%s]\n", normalizeTitle(b.Name), b.ID)
}

// FormatMember formats a member line. Selected members are starred.
func FormatMember(w io.Writer, u service.User) {
	mark := " "
	if u.Selected {
		mark = "*"
	}
	name := normalizeTitle(u.Name)
	if u.Email != "" {
		name += " <" + u.Email + ">"
	}
	fmt.Fprintf(w, "%s %s\n", mark, name)
}

func memberName(id string, names map[string]string) string {
	if n, ok := names[id]; ok && strings.TrimSpace(n) != "" {
		return n
	}
	return id
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
