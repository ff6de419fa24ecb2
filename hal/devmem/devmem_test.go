// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build linux

package devmem

import (
	"os"
	"path/filepath"
	"testing"
)

func testWindow(t *testing.T, size int) string {
	path := filepath.Join(t.TempDir(), "mem")

	if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestBus(t *testing.T) {
	path := testWindow(t, 4096)

	b, err := Open(path, 0, 4096)

	if err != nil {
		t.Fatal(err)
	}

	b.Write(0x10, 0xdeadbeef)

	if got := b.Read(0x10); got != 0xdeadbeef {
		t.Fatalf("unexpected read %#08x", got)
	}

	if err = b.Close(); err != nil {
		t.Fatal(err)
	}

	buf, err := os.ReadFile(path)

	if err != nil {
		t.Fatal(err)
	}

	if got := Order.Uint32(buf[0x10:]); got != 0xdeadbeef {
		t.Fatalf("write not reflected in backing file %#08x", got)
	}
}

func TestBusShadow(t *testing.T) {
	b, err := Open(testWindow(t, 4096), 0, 4096)

	if err != nil {
		t.Fatal(err)
	}

	defer b.Close()

	b.Write(0x100, 0x544f5053)

	buf, err := b.Shadow(0x100, 8)

	if err != nil {
		t.Fatal(err)
	}

	if len(buf) != 8 || Order.Uint32(buf) != 0x544f5053 {
		t.Fatalf("unexpected shadow %x", buf)
	}

	if _, err = b.Shadow(0xffc, 8); err == nil {
		t.Fatal("expected unmapped error")
	}
}

func TestBusOutsideWindow(t *testing.T) {
	b, err := Open(testWindow(t, 4096), 0, 4096)

	if err != nil {
		t.Fatal(err)
	}

	defer b.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	b.Read(0x1000)
}
