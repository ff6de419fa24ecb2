// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build debug

package cmd

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/arl/statsviz"
)

// StartDebug serves runtime statistics and profiling over HTTP on the
// argument address.
func StartDebug(addr string) (err error) {
	if err = statsviz.RegisterDefault(); err != nil {
		return
	}

	log.Printf("debug: statsviz listening on http://%s/debug/statsviz", addr)

	return http.ListenAndServe(addr, nil)
}
