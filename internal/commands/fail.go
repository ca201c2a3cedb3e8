package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"todopro/internal/api"
	"todopro/internal/exitcode"
	"todopro/internal/model"
	"todopro/internal/service"
	"todopro/internal/store"
)

// fail prints err and maps it to an exit code. Validation and
// not-found errors are user errors; auth taxonomy errors exit with the
// auth code; everything else is a backend error.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)

	if kind, ok := api.ErrorKind(err); ok {
		switch kind {
		case api.KindValidation, api.KindNotFound:
			return exitcode.UserError
		case api.KindUnauthenticated, api.KindUnauthorized:
			return exitcode.AuthError
		default:
			return exitcode.BackendError
		}
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrExists) {
		return exitcode.UserError
	}
	var bad *refError
	if errors.As(err, &bad) {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// refError marks a task reference the user got wrong.
type refError struct {
	msg string
}

func (e *refError) Error() string { return e.msg }

// resolveTask maps a task reference to a task. A reference is either a
// 1-based position in the current list or a raw task id.
func resolveTask(ctx context.Context, svc *service.Service, ref string) (model.Task, error) {
	list, err := svc.Tasks.List(ctx)
	if err != nil {
		return model.Task{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return model.Task{}, &refError{msg: fmt.Sprintf("task number out of range: %d", n)}
		}
		return list[n-1], nil
	}
	for _, t := range list {
		if t.ID == ref {
			return t, nil
		}
	}
	return model.Task{}, &refError{msg: fmt.Sprintf("task not found: %s", ref)}
}
