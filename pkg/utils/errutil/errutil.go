package errutil

import (
	"context"
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a client is configured.
// It returns err unchanged so callers can propagate it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	hub := sentry.CurrentHub()
	if hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			if ge != nil {
				scope.SetContext("goerr", sentry.Context(ge.Values()))
			}
			scope.SetTag("message", msg)
			hub.CaptureException(err)
		})
	}

	return err
}
