package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/receiptsplit/internal/editor"
	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// connectError maps domain errors to Connect codes. Unknown errors are
// logged and reported as internal.
func connectError(op string, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return connect.NewError(connect.CodeInvalidArgument, err)

	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, editor.ErrItemNotFound),
		errors.Is(err, editor.ErrPersonNotFound):
		return connect.NewError(connect.CodeNotFound, err)

	case errors.Is(err, editor.ErrNegativePrice),
		errors.Is(err, scanner.ErrEmptyImage),
		errors.Is(err, scanner.ErrImageTooLarge),
		errors.Is(err, scanner.ErrUnsupportedImage):
		return connect.NewError(connect.CodeInvalidArgument, err)

	case errors.Is(err, editor.ErrTooManyPeople):
		return connect.NewError(connect.CodeFailedPrecondition, err)

	case errors.Is(err, scanner.ErrRateLimited),
		errors.Is(err, scanner.ErrQuotaExceeded):
		return connect.NewError(connect.CodeResourceExhausted, err)

	case errors.Is(err, scanner.ErrUnreadable):
		return connect.NewError(connect.CodeUnavailable, err)

	case errors.Is(err, scanner.ErrDisabled):
		return connect.NewError(connect.CodeUnimplemented, err)

	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)

	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}

	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}
