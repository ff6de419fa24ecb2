// Copyright (c) The go-spot authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gliderlabs/ssh"
)

// loadAuthorizedKeys parses an OpenSSH authorized_keys file.
func loadAuthorizedKeys(path string) (keys []ssh.PublicKey, err error) {
	buf, err := os.ReadFile(path)

	if err != nil {
		return
	}

	for len(buf) > 0 {
		var key ssh.PublicKey

		if key, _, _, buf, err = ssh.ParseAuthorizedKey(buf); err != nil {
			break
		}

		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys in %s", path)
	}

	return keys, nil
}

// NewSSHServer returns an SSH console server accepting only the public keys
// listed in the authorizedKeys file, a host key is generated when hostKey is
// empty.
func NewSSHServer(addr string, hostKey string, authorizedKeys string) (srv *ssh.Server, err error) {
	if authorizedKeys == "" {
		return nil, errors.New("refusing to serve the console without authorized keys")
	}

	keys, err := loadAuthorizedKeys(authorizedKeys)

	if err != nil {
		return nil, fmt.Errorf("could not load authorized keys, %v", err)
	}

	srv = &ssh.Server{
		Addr: addr,
		Handler: func(s ssh.Session) {
			_, _, pty := s.Pty()
			c := Console(s, pty)

			log.Printf("ssh: %s connected from %s", s.User(), s.RemoteAddr())
			defer log.Printf("ssh: %s disconnected", s.User())

			if len(s.RawCommand()) == 0 {
				c.Start()
				return
			}

			if err := c.Run(strings.NewReader(s.RawCommand()), s); err != nil {
				fmt.Fprintf(s.Stderr(), "command error, %v\n", err)
				s.Exit(1)
				return
			}

			s.Exit(0)
		},
	}

	auth := ssh.PublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
		for _, k := range keys {
			if ssh.KeysEqual(key, k) {
				return true
			}
		}

		log.Printf("ssh: rejected %s key for %s from %s", key.Type(), ctx.User(), ctx.RemoteAddr())

		return false
	})

	if err = srv.SetOption(auth); err != nil {
		return
	}

	if hostKey != "" {
		if err = srv.SetOption(ssh.HostKeyFile(hostKey)); err != nil {
			return nil, fmt.Errorf("could not load host key, %v", err)
		}
	}

	return
}

// StartSSH serves the console over SSH on the argument address.
func StartSSH(addr string, hostKey string, authorizedKeys string) (err error) {
	srv, err := NewSSHServer(addr, hostKey, authorizedKeys)

	if err != nil {
		return
	}

	log.Printf("ssh: console listening on %s", addr)

	return srv.ListenAndServe()
}
