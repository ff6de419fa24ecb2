// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"text/tabwriter"
)

// CmdFn represents a command handler.
type CmdFn func(iface *Interface, arg []string) (res string, err error)

// Cmd represents a shell command.
type Cmd struct {
	// Name is the command name, matched verbatim when Pattern is nil
	Name string
	// Args is the number of Pattern submatches passed to Fn
	Args int
	// Pattern is the optional command line pattern
	Pattern *regexp.Regexp
	// Syntax is the argument syntax shown in help
	Syntax string
	// Help is the command description
	Help string
	// Fn is the command handler
	Fn CmdFn
}

var cmds = make(map[string]*Cmd)

func init() {
	Add(Cmd{
		Name: "help",
		Help: "this help",
		Fn:   Help,
	})
}

// Add registers a terminal command, it is meant to be invoked at package
// initialization.
func Add(cmd Cmd) {
	cmds[cmd.Name] = &cmd
}

// Help returns a formatted list of all registered commands.
func Help(_ *Interface, _ []string) (string, error) {
	var help bytes.Buffer
	var names []string

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	t := tabwriter.NewWriter(&help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for _, name := range names {
		cmd := cmds[name]
		fmt.Fprintf(t, "%s\t%s\t # %s\n", cmd.Name, cmd.Syntax, cmd.Help)
	}

	t.Flush()

	return help.String(), nil
}
