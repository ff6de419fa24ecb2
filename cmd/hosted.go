// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/usbarmory/go-spot/shell"
)

var started = time.Now()

func uptime() time.Duration {
	return time.Since(started)
}

func infoCmd(_ *shell.Interface, _ []string) (string, error) {
	var res bytes.Buffer

	host, _ := os.Hostname()

	fmt.Fprintf(&res, "Runtime ......: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&res, "Host .........: %s (pid %d)\n", host, os.Getpid())
	fmt.Fprintf(&res, "Register bus .: %s", busName())

	return res.String(), nil
}
