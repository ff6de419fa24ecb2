// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

package cmd

import (
	"bytes"
	"fmt"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/usbarmory/tamago/dma"

	"github.com/usbarmory/go-spot/board/x64"
	"github.com/usbarmory/go-spot/shell"
)

func init() {
	shell.Add(shell.Cmd{
		Name:    "cpuid",
		Args:    2,
		Pattern: regexp.MustCompile(`^cpuid\s+([[:xdigit:]]+) ([[:xdigit:]]+)$`),
		Syntax:  "<leaf> <subleaf>",
		Help:    "display CPU capabilities",
		Fn:      cpuidCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "dma",
		Args:    1,
		Pattern: regexp.MustCompile(`^dma(?:(?: )(free|used))?$`),
		Help:    "show allocation of default DMA region",
		Syntax:  "(free|used)?",
		Fn:      dmaCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "date",
		Args:    1,
		Pattern: regexp.MustCompile(`^date(.*)`),
		Syntax:  "(time in RFC339 format)?",
		Help:    "show/change runtime date and time",
		Fn:      dateCmd,
	})
}

func uptime() time.Duration {
	return time.Duration(int64(float64(x64.AMD64.TimerFn()) * x64.AMD64.TimerMultiplier))
}

func infoCmd(_ *shell.Interface, _ []string) (string, error) {
	var res bytes.Buffer

	ramStart, ramEnd := runtime.MemRegion()

	fmt.Fprintf(&res, "Runtime ......: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&res, "RAM ..........: %#08x-%#08x (%d MiB)\n", ramStart, ramEnd, (ramEnd-ramStart)/(1024*1024))
	fmt.Fprintf(&res, "CPU ..........: %s\n", x64.AMD64.Name())
	fmt.Fprintf(&res, "Register bus .: %s", busName())

	return res.String(), nil
}

func cpuidCmd(_ *shell.Interface, arg []string) (string, error) {
	var res bytes.Buffer

	leaf, err := strconv.ParseUint(arg[0], 16, 32)

	if err != nil {
		return "", fmt.Errorf("invalid leaf, %v", err)
	}

	subleaf, err := strconv.ParseUint(arg[1], 16, 32)

	if err != nil {
		return "", fmt.Errorf("invalid subleaf, %v", err)
	}

	eax, ebx, ecx, edx := x64.AMD64.CPUID(uint32(leaf), uint32(subleaf))

	fmt.Fprintf(&res, "EAX      EBX      ECX      EDX\n")
	fmt.Fprintf(&res, "%08x %08x %08x %08x", eax, ebx, ecx, edx)

	return res.String(), nil
}

func dmaCmd(_ *shell.Interface, arg []string) (string, error) {
	var res []string

	if dma.Default() == nil {
		return "no default DMA region is present", nil
	}

	dump := func(blocks map[uint]uint, tag string) string {
		var r []string
		var t uint

		for addr, n := range blocks {
			t += n
			r = append(r, fmt.Sprintf("%#08x-%#08x %10d", addr, addr+n, n))
		}

		sort.Strings(r)
		r = append(r, fmt.Sprintf("%21s %10d bytes %s", "", t, tag))

		return strings.Join(r, "\n")
	}

	if arg[0] == "" || arg[0] == "free" {
		if blocks := dma.Default().FreeBlocks(); len(blocks) > 0 {
			res = append(res, dump(blocks, "free"))
		}
	}

	if arg[0] == "" || arg[0] == "used" {
		if blocks := dma.Default().UsedBlocks(); len(blocks) > 0 {
			res = append(res, dump(blocks, "used"))
		}
	}

	return strings.Join(res, "\n"), nil
}

func dateCmd(_ *shell.Interface, arg []string) (res string, err error) {
	if len(arg[0]) > 1 {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(arg[0]))

		if err != nil {
			return "", err
		}

		x64.AMD64.SetTime(t.UnixNano())
	}

	return time.Now().Format(time.RFC3339), nil
}
