// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a node of the command tree.
type Command struct {
	// Name is the word that selects the command (e.g. "lookup").
	Name string

	// Summary is the one-line description in the parent's listing.
	Summary string

	// Description is the longer text of the command's own help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per
	// parse, so it may bind to fresh parameter values.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// HelpOutput receives help printed by Execute for this command and
	// its descendants. Nil means stderr.
	HelpOutput io.Writer

	// Run receives the positional arguments left after flag parsing.
	// When Subcommands is also set, Run handles arguments that name
	// no subcommand.
	Run func(ctx context.Context, args []string) error

	parent *Command
}

// Example is a usage example in help output.
type Example struct {
	Description string
	Command     string
}

// Execute dispatches args down the tree and runs the selected command.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		for _, sub := range c.Subcommands {
			if sub.Name == name {
				sub.parent = c
				return sub.Execute(ctx, args[1:])
			}
		}
		if c.Run == nil {
			if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
				return Validation("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
					name, suggestion, c.fullName())
			}
			return Validation("unknown command %q\n\nRun '%s --help' for usage.", name, c.fullName())
		}
	}

	if len(c.Subcommands) > 0 && c.Run == nil {
		c.PrintHelp(c.helpOutput())
		if len(args) == 0 {
			return Validation("subcommand required")
		}
		return Validation("subcommand required (got flag %q)", args[0])
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		flagSet.SetOutput(io.Discard)
		if err := flagSet.Parse(args); err != nil {
			if strings.Contains(err.Error(), "unknown flag") || strings.Contains(err.Error(), "unknown shorthand flag") {
				if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
					return Validation("%v (did you mean %s?)\n\nRun '%s --help' for usage.", err, suggestion, c.fullName())
				}
			}
			return Validation("%v\n\nRun '%s --help' for usage.", err, c.fullName())
		}
		args = flagSet.Args()
	}

	if c.Run != nil {
		return c.Run(ctx, args)
	}
	c.PrintHelp(c.helpOutput())
	return Validation("no action defined for %q", c.fullName())
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()
	var help strings.Builder

	if text := cmp.Or(c.Description, c.Summary); text != "" {
		help.WriteString(text + "\n\n")
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	help.WriteString("Usage:\n  " + usage + "\n")

	if len(c.Subcommands) > 0 {
		help.WriteString("\nCommands:\n")
		listing := tabwriter.NewWriter(&help, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(listing, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		listing.Flush()
	}

	if c.Flags != nil {
		var defaults strings.Builder
		flagSet := c.Flags()
		flagSet.SetOutput(&defaults)
		flagSet.PrintDefaults()
		if defaults.Len() > 0 {
			help.WriteString("\nFlags:\n" + defaults.String())
		}
	}

	if len(c.Examples) > 0 {
		help.WriteString("\nExamples:\n")
		for i, example := range c.Examples {
			if i > 0 {
				help.WriteString("\n")
			}
			if example.Description != "" {
				help.WriteString("  # " + example.Description + "\n")
			}
			help.WriteString("  " + example.Command + "\n")
		}
	}

	if len(c.Subcommands) > 0 {
		help.WriteString("\nRun '" + name + " <command> --help' for more information on a command.\n")
	}
	io.WriteString(w, help.String())
}

// helpOutput is where Execute prints help: the nearest HelpOutput up
// the tree, or stderr.
func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

// fullName returns the command path, e.g. "gnunet-ipc gns lookup".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
