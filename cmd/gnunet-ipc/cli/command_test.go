// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesNested(t *testing.T) {
	var called string
	var received []string
	root := &Command{
		Name: "gnunet-ipc",
		Subcommands: []*Command{
			{Name: "version", Run: func(context.Context, []string) error { called = "version"; return nil }},
			{
				Name: "gns",
				Subcommands: []*Command{
					{Name: "lookup", Run: func(_ context.Context, args []string) error {
						called = "gns lookup"
						received = args
						return nil
					}},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"gns", "lookup", "www.gnu"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "gns lookup" {
		t.Errorf("dispatched to %q", called)
	}
	if len(received) != 1 || received[0] != "www.gnu" {
		t.Errorf("args = %v, want [www.gnu]", received)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var recordType string
	var received []string
	command := &Command{
		Name: "lookup",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
			flagSet.StringVar(&recordType, "type", "ANY", "record type")
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			received = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--type", "AAAA", "a.gnu", "b.gnu"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if recordType != "AAAA" {
		t.Errorf("type = %q, want AAAA", recordType)
	}
	if strings.Join(received, " ") != "a.gnu b.gnu" {
		t.Errorf("args = %v", received)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "lookup",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
			flagSet.String("zone", "", "zone key")
			return flagSet
		},
		Run: func(context.Context, []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zoen", "X"})
	if err == nil {
		t.Fatal("Execute succeeded with an unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --zone?") {
		t.Errorf("error = %q, want a --zone suggestion", err)
	}
	if Categorize(err) != CategoryValidation {
		t.Errorf("category = %s, want validation", Categorize(err))
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name:        "gnunet-ipc",
		Subcommands: []*Command{{Name: "identity", Run: func(context.Context, []string) error { return nil }}},
	}

	err := root.Execute(context.Background(), []string{"identiy"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "identity"?`) {
		t.Errorf("error = %v, want an identity suggestion", err)
	}

	err = root.Execute(context.Background(), []string{"xyzzy-plugh"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "gnunet-ipc",
		Subcommands: []*Command{{Name: "version", Run: func(context.Context, []string) error { return nil }}},
	}
	var toolErr *ToolError
	if err := root.Execute(context.Background(), nil); !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("Execute(nil) = %v, want a validation error", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params struct {
		JSONOutput
	}
	root := &Command{Name: "gnunet-ipc"}
	command := &Command{
		Name:        "list",
		Summary:     "List egos",
		Description: "List every ego the identity daemon knows.",
		Examples:    []Example{{Description: "As JSON", Command: "gnunet-ipc identity list --json"}},
		Flags:       func() *pflag.FlagSet { return FlagsFromParams("list", &params) },
		parent:      root,
	}

	var help strings.Builder
	command.PrintHelp(&help)
	for _, want := range []string{
		"List every ego the identity daemon knows.",
		"Usage:\n  gnunet-ipc list [flags]",
		"--json",
		"# As JSON",
		"gnunet-ipc identity list --json",
	} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help does not contain %q:\n%s", want, help.String())
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"lookup", "lookup", 0},
		{"lookpu", "lookup", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
