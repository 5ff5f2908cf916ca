// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iface enumerates the host's wireless interfaces and picks the
// one a session will use.
package iface

import (
	"errors"
	"log"
	"regexp"

	"github.com/bsdnet/wifijoin/pkg/prompt"
)

var (
	ErrNoInterfaceFound = errors.New("no wireless interface found")
	// ErrInterfaceUnavailable means an interface exists but cannot
	// currently be activated, e.g. a detached radio.
	ErrInterfaceUnavailable = errors.New("wireless interface could not be activated")
)

// ifnameRE matches an interface heading in ifconfig output, e.g.
// "iwn0: flags=8843<UP,BROADCAST,...> mtu 1500".
var ifnameRE = regexp.MustCompile(`(?m)^([a-z]+[0-9]+):`)

// parseNames extracts interface names from ifconfig group output,
// de-duplicated, enumeration order preserved.
func parseNames(out string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range ifnameRE.FindAllStringSubmatch(out, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Choose resolves candidates to one interface name. A single candidate
// is taken without prompting; several present a numbered menu where an
// empty line cancels. Zero candidates is ErrNoInterfaceFound.
func Choose(in prompt.LineReader, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", ErrNoInterfaceFound
	case 1:
		log.Printf("using wireless interface %s", candidates[0])
		return candidates[0], nil
	}
	i, err := prompt.Choose(in, "Wireless interfaces:", candidates)
	if err != nil {
		return "", err
	}
	return candidates[i], nil
}
