// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package iface

import (
	"context"

	"github.com/bsdnet/wifijoin/pkg/execer"
)

// Discover lists every member of the wlan interface group. Wireless
// drivers join the group automatically, so membership is the wireless
// capability test.
func Discover(ctx context.Context, r execer.Runner) ([]string, error) {
	out, err := r.Output(ctx, "ifconfig", "wlan")
	if err != nil {
		// ifconfig exits nonzero when the group has no members.
		return nil, nil
	}
	return parseNames(out), nil
}

// Probe brings the interface administratively up and reports whether it
// can be activated. A detached radio fails here and gets skipped.
func Probe(ctx context.Context, r execer.Runner, name string) bool {
	return r.Run(ctx, "ifconfig", name, "up") == nil
}
