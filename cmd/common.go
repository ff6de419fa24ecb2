// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	"github.com/hako/durafmt"

	"github.com/usbarmory/go-spot/shell"
)

func init() {
	shell.Add(shell.Cmd{
		Name: "build",
		Help: "build information",
		Fn:   buildInfoCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "exit, quit",
		Args:    1,
		Pattern: regexp.MustCompile(`^(exit|quit)$`),
		Help:    "close session",
		Fn:      exitCmd,
	})

	shell.Add(shell.Cmd{
		Name: "stack",
		Help: "goroutine stack trace (current)",
		Fn:   stackCmd,
	})

	shell.Add(shell.Cmd{
		Name: "stackall",
		Help: "goroutine stack trace (all)",
		Fn:   stackallCmd,
	})

	shell.Add(shell.Cmd{
		Name: "uptime",
		Help: "show how long the system has been running",
		Fn:   uptimeCmd,
	})

	// The following commands are board specific, therefore their Fn
	// pointers are defined elsewhere in the respective target files.

	shell.Add(shell.Cmd{
		Name: "info",
		Help: "device information",
		Fn:   infoCmd,
	})
}

func buildInfoCmd(_ *shell.Interface, _ []string) (string, error) {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.String(), nil
	}

	return "", nil
}

func exitCmd(_ *shell.Interface, _ []string) (string, error) {
	return fmt.Sprintf("Goodbye from %s/%s", runtime.GOOS, runtime.GOARCH), io.EOF
}

func stackCmd(_ *shell.Interface, _ []string) (string, error) {
	return string(debug.Stack()), nil
}

func stackallCmd(_ *shell.Interface, _ []string) (string, error) {
	buf := new(bytes.Buffer)
	pprof.Lookup("goroutine").WriteTo(buf, 1)

	return buf.String(), nil
}

func uptimeCmd(_ *shell.Interface, _ []string) (string, error) {
	return durafmt.Parse(uptime()).LimitFirstN(3).String(), nil
}
