package util

import (
	"fmt"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// FatalErrorHandler decides whether a per-file error stops the build.
type FatalErrorHandler struct {
	ContinueOnError bool

	// Failed counts errors that were logged and skipped.
	Failed int
}

func NewErrorHandler(continueOnError bool) *FatalErrorHandler {
	return &FatalErrorHandler{
		ContinueOnError: continueOnError,
	}
}

// Handle returns the wrapped error when the build must stop, and nil when
// the error was logged and processing may continue.
func (h *FatalErrorHandler) Handle(err error, format string, args ...interface{}) error {
	if err == nil {
		err = fmt.Errorf(format, args...)
	} else {
		err = karma.Format(err, format, args...)
	}

	if h.ContinueOnError {
		h.Failed++
		log.Error(err)
		return nil
	}

	return err
}
