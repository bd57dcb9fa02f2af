package commands

import (
	"errors"
	"fmt"
	"io"

	"tboard/internal/board"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

// reportError prints err to errOut and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	var (
		verr *service.ValidationError
		lerr *listNotEmptyError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &lerr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, board.ErrIndexOutOfRange),
		errors.Is(err, board.ErrAlreadyMember),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrConflict):
		fmt.Fprintln(errOut, "error: board changed since it was loaded (run the command again)")
		return exitcode.ConflictError
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
