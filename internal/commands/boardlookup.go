package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

// resolveBoard finds a board the current user belongs to by id or by
// case-insensitive name.
func resolveBoard(ctx context.Context, svc service.Service, ref string) (service.Board, error) {
	if err := service.Required("a board", ref); err != nil {
		return service.Board{}, err
	}
	boards, err := svc.ListBoards(ctx)
	if err != nil {
		return service.Board{}, err
	}
	for _, b := range boards {
		if b.ID == ref {
			return b, nil
		}
	}

	var matches []service.Board
	for _, b := range boards {
		if strings.EqualFold(strings.TrimSpace(b.Name), strings.TrimSpace(ref)) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return service.Board{}, fmt.Errorf("%w: board %q", service.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return service.Board{}, fmt.Errorf("%w: %d boards named %q", service.ErrAmbiguous, len(matches), ref)
	}
}

// openSession resolves ref and opens an editing session on it.
func openSession(ctx context.Context, svc service.Service, ref string) (*board.Session, error) {
	b, err := resolveBoard(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	return board.Open(ctx, svc, svc.CurrentUserID(), b.ID)
}

// parseListNum parses a 1-based list number into a display position.
func parseListNum(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid list number: %s", s)
	}
	return n - 1, nil
}

// runMutation opens the board named by ref and applies m to it.
func runMutation(ctx context.Context, cfg *config.Config, svc service.Service, ref string, m board.Mutation, out, errOut io.Writer) int {
	sess, err := openSession(ctx, svc, ref)
	if err != nil {
		return reportError(errOut, err)
	}
	defer sess.Close()

	if err := sess.Apply(ctx, m); err != nil {
		if errors.Is(err, service.ErrConflict) {
			refreshAfterConflict(ctx, sess)
		}
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func refreshAfterConflict(ctx context.Context, sess *board.Session) {
	if err := sess.Refresh(ctx); err != nil {
		log.WithError(err).Debug("refresh after conflict failed")
		return
	}
	b := sess.Board()
	log.WithFields(log.Fields{"board": b.ID, "version": b.Version, "lists": len(b.TaskLists)}).Debug("board reloaded after conflict")
}

// memberNames maps the board members' ids to display names.
func memberNames(ctx context.Context, svc service.Service, b service.Board) (map[string]string, []service.User, error) {
	users, err := svc.FetchUsers(ctx, b.AssignedTo)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, users, nil
}
