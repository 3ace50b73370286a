// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	var code int
	previous := osExit
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = previous })

	Exit(nil, 3)
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestReport(t *testing.T) {
	var output strings.Builder
	report(&output, errors.New("no socket for gns"))
	if got := output.String(); got != "error: no socket for gns\n" {
		t.Errorf("report wrote %q", got)
	}

	output.Reset()
	report(&output, nil)
	if output.Len() != 0 {
		t.Errorf("report(nil) wrote %q", output.String())
	}
}
