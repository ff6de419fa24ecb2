// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"
)

func init() {
	Add(Cmd{
		Name:    "echo",
		Args:    1,
		Pattern: regexp.MustCompile(`^echo (.*)`),
		Syntax:  "<text>",
		Help:    "print text",
		Fn: func(_ *Interface, arg []string) (string, error) {
			return arg[0], nil
		},
	})

	Add(Cmd{
		Name: "bye",
		Help: "close session",
		Fn: func(_ *Interface, _ []string) (string, error) {
			return "", io.EOF
		},
	})
}

func TestExec(t *testing.T) {
	iface := &Interface{}
	buf := new(bytes.Buffer)

	if err := iface.Exec("echo hello", buf); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "hello\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := iface.Exec("nope", buf); err == nil {
		t.Fatal("expected unknown command error")
	}

	if err := iface.Exec("bye", buf); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestHelp(t *testing.T) {
	help, err := Help(nil, nil)

	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"help", "echo", "bye"} {
		if !strings.Contains(help, name) {
			t.Errorf("%s missing from help", name)
		}
	}

	if strings.Index(help, "bye") > strings.Index(help, "echo") {
		t.Error("help not sorted")
	}
}

type session struct {
	io.Reader
	io.Writer
}

func TestStart(t *testing.T) {
	out := new(bytes.Buffer)

	iface := &Interface{
		Banner: "test banner",
		ReadWriter: session{
			Reader: strings.NewReader("echo one\r\nbye\r\necho two\r\n"),
			Writer: out,
		},
	}

	iface.Start()

	if !strings.Contains(out.String(), "test banner") || !strings.Contains(out.String(), "one") {
		t.Fatalf("unexpected session output %q", out.String())
	}

	if strings.Contains(out.String(), "two") {
		t.Fatal("session not closed by command")
	}
}

func TestExecSequence(t *testing.T) {
	iface := &Interface{}
	buf := new(bytes.Buffer)

	if err := iface.Exec(" echo one ;; echo two", buf); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "one\ntwo\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()

	if err := iface.Exec("echo one; nope; echo two", buf); err == nil {
		t.Fatal("expected unknown command error")
	}

	if buf.String() != "one\n" {
		t.Fatalf("sequence not stopped at failure, output %q", buf.String())
	}
}

func TestRun(t *testing.T) {
	iface := &Interface{}
	buf := new(bytes.Buffer)

	if err := iface.Run(strings.NewReader("echo one\nbye\necho two\n"), buf); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "one\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := iface.Run(strings.NewReader("nope"), buf); err == nil {
		t.Fatal("expected unknown command error")
	}
}
