// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// osExit is replaced in tests.
var osExit = os.Exit

// Fatal writes "error: err" to stderr and exits with code 1.
func Fatal(err error) {
	Exit(err, 1)
}

// Exit ends the process with code. A non-nil err is written to stderr
// first as "error: err"; pass nil when the command has already
// reported its failure.
func Exit(err error, code int) {
	report(os.Stderr, err)
	osExit(code)
}

func report(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
