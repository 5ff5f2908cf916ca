// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bsdnet/wifijoin/pkg/execer"
	"github.com/bsdnet/wifijoin/pkg/profile"
)

var (
	ErrScanFailed      = errors.New("scan failed")
	ErrNoNetworksFound = errors.New("no networks found")
	ErrJoinFailed      = errors.New("join failed")
)

// nwidRE matches a scan result line's network identifier, quoted or
// bare.
var nwidRE = regexp.MustCompile(`\bnwid\s+(?:"([^"]*)"|(\S+))`)

// IfconfigWorker implements Worker with the ifconfig(8) wireless
// subcommands.
type IfconfigWorker struct {
	Interface string
	Run       execer.Runner
}

var _ = Worker(&IfconfigWorker{})

func NewIfconfigWorker(r execer.Runner, iface string) *IfconfigWorker {
	return &IfconfigWorker{Interface: iface, Run: r}
}

func (w *IfconfigWorker) Up(ctx context.Context) error {
	return w.Run.Run(ctx, "ifconfig", w.Interface, "up")
}

// ClearState resets the security, negotiation, channel, and identifier
// settings a previous association may have left on the interface, so
// stale state cannot leak into the new join attempt.
func (w *IfconfigWorker) ClearState(ctx context.Context) error {
	return w.Run.Run(ctx, "ifconfig", w.Interface, "-nwid", "-wpa", "-wpakey", "-chan", "-bssid")
}

// Scan asks the radio for visible networks. Duplicate SSIDs are kept in
// scan order; a radio may report the same network once per channel.
// Hidden networks show up as empty identifiers and are dropped.
func (w *IfconfigWorker) Scan(ctx context.Context) ([]string, error) {
	out, err := w.Run.Output(ctx, "ifconfig", w.Interface, "scan")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	ssids := parseScan(out)
	if len(ssids) == 0 {
		return nil, ErrNoNetworksFound
	}
	return ssids, nil
}

func parseScan(out string) []string {
	var ssids []string
	for _, line := range strings.Split(out, "\n") {
		m := nwidRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ssid := m[1]
		if ssid == "" {
			ssid = m[2]
		}
		if ssid == "" {
			continue
		}
		ssids = append(ssids, ssid)
	}
	return ssids
}

// Join associates with the profile's network: join/wpakey for a keyed
// network, nwid alone for an open one.
func (w *IfconfigWorker) Join(ctx context.Context, p *profile.Profile) error {
	var err error
	if p.Keyed() {
		err = w.Run.Run(ctx, "ifconfig", w.Interface, "join", p.SSID, "wpakey", p.Key)
	} else {
		err = w.Run.Run(ctx, "ifconfig", w.Interface, "nwid", p.SSID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}
	return nil
}
