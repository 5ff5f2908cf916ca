// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package iface

import (
	"context"
	"fmt"
	"os"

	"github.com/vishvananda/netlink"

	"github.com/bsdnet/wifijoin/pkg/execer"
)

// Discover lists wireless links. A link is wireless when the kernel
// exposes a wireless directory for it under sysfs.
func Discover(ctx context.Context, r execer.Runner) ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, l := range links {
		name := l.Attrs().Name
		if _, err := os.Stat(fmt.Sprintf("/sys/class/net/%s/wireless", name)); err == nil {
			names = append(names, name)
		}
	}
	return names, nil
}

// Probe brings the link administratively up and reports whether it can
// be activated.
func Probe(ctx context.Context, r execer.Runner, name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	return netlink.LinkSetUp(link) == nil
}
