// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package shell implements the power management console, a line oriented
// command interpreter served over a serial port, standard input or SSH.
//
// A line holds one or more commands separated by `;`, executed in order
// until the first failure, so that stimulus sequences such as
// `postpone; temp 60; pending` can be issued atomically from the console's
// point of view.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"golang.org/x/term"
)

// Interface represents a terminal interface.
type Interface struct {
	// Banner represents the welcome message
	Banner string

	// ReadWriter represents the terminal connection
	ReadWriter io.ReadWriter

	// VT100 enables a colored prompt
	VT100 bool

	// Prompt, when set, returns the prompt prefix, it is refreshed after
	// each line
	Prompt func() string
}

// lookup returns the command matching the argument statement, verbatim names
// take precedence over patterns, which are tried in name order.
func lookup(s string) (*Cmd, []string) {
	if cmd, ok := cmds[s]; ok && cmd.Pattern == nil {
		return cmd, nil
	}

	var names []string

	for name, cmd := range cmds {
		if cmd.Pattern != nil {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	for _, name := range names {
		cmd := cmds[name]

		if m := cmd.Pattern.FindStringSubmatch(s); len(m) > 0 && len(m)-1 == cmd.Args {
			return cmd, m[1:]
		}
	}

	return nil, nil
}

// Exec runs a command line, its output is written to w. Execution stops at
// the first failing command.
func (iface *Interface) Exec(line string, w io.Writer) (err error) {
	for _, s := range strings.Split(line, ";") {
		if s = strings.TrimSpace(s); len(s) == 0 {
			continue
		}

		cmd, arg := lookup(s)

		if cmd == nil {
			return fmt.Errorf("unknown command %q, type `help`", s)
		}

		res, err := cmd.Fn(iface, arg)

		if err != nil {
			return err
		}

		if len(res) > 0 {
			fmt.Fprintln(w, res)
		}
	}

	return
}

// Run executes the command lines read from r without terminal handling, as
// for SSH exec requests. It returns the first command error, io.EOF from a
// command ends the run successfully.
func (iface *Interface) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		err := iface.Exec(scanner.Text(), w)

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}

	return scanner.Err()
}

func (iface *Interface) setPrompt(t *term.Terminal) {
	prompt := "> "

	if iface.Prompt != nil {
		prompt = iface.Prompt() + prompt
	}

	if iface.VT100 {
		prompt = string(t.Escape.Red) + prompt + string(t.Escape.Reset)
	}

	t.SetPrompt(prompt)
}

func (iface *Interface) readLine(t *term.Terminal, w io.Writer) error {
	s, err := t.ReadLine()

	if err == io.EOF {
		return err
	}

	if err != nil {
		log.Printf("readline error, %v", err)
		return nil
	}

	err = iface.Exec(s, w)

	switch {
	case errors.Is(err, io.EOF):
		return err
	case err != nil:
		fmt.Fprintf(w, "command error, %v\n", err)
	}

	if iface.VT100 {
		iface.setPrompt(t)
	}

	return nil
}

// Start handles registered commands over the interface ReadWriter until
// the connection is closed or a command returns io.EOF.
func (iface *Interface) Start() {
	var w io.Writer

	t := term.NewTerminal(iface.ReadWriter, "")
	w = iface.ReadWriter

	if iface.VT100 {
		iface.setPrompt(t)
		w = t
	}

	help, _ := Help(iface, nil)

	fmt.Fprintf(t, "\n%s\n\n", iface.Banner)
	fmt.Fprintf(t, "%s\n", help)

	for {
		if err := iface.readLine(t, w); err != nil {
			return
		}
	}
}
