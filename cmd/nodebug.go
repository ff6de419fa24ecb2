// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !debug

package cmd

import (
	"errors"
)

// StartDebug is not available without the debug build tag.
func StartDebug(_ string) error {
	return errors.New("runtime statistics require the debug build tag")
}
