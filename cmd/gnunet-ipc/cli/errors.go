// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/gnunet/service"
)

// ErrorCategory classifies a command failure.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments or configuration.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the named ego, peer or record does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient: the daemon is not running or went away.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else, including protocol violations.
	CategoryInternal ErrorCategory = "internal"
)

// Exit codes per category. Zero is success and 1 is CategoryInternal.
var exitCodes = map[ErrorCategory]int{
	CategoryInternal:   1,
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryTransient:  4,
}

// ExitCode returns the process exit code for failures of category c.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ToolError is a categorized command error.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation returns a CategoryValidation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound returns a CategoryNotFound error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient returns a CategoryTransient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal returns a CategoryInternal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize returns the category of err. Errors that are not a
// *ToolError are classified by what the service layer reports:
// connect failures, disconnects and timeouts are transient.
func Categorize(err error) ErrorCategory {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Category
	}
	var connectErr *service.ConnectError
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		return CategoryValidation
	case errors.As(err, &connectErr),
		errors.Is(err, service.ErrDisconnected),
		errors.Is(err, service.ErrBroken),
		errors.Is(err, context.DeadlineExceeded):
		return CategoryTransient
	}
	return CategoryInternal
}

// ExitError ends the process with Code without printing anything
// more; the command has already written its output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit code %d", e.Code) }

// ExitCode returns the process exit code for err: 0 for nil, the code
// of an *ExitError, or the code of err's category.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return Categorize(err).ExitCode()
}
