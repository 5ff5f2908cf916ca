// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wifi drives one wireless interface: reset stale association
// state, scan for visible networks, and join one from a saved profile.
package wifi

import (
	"context"

	"github.com/bsdnet/wifijoin/pkg/profile"
)

// Worker is the per-interface wireless surface the connection flow
// uses. Scan requires the interface to already be up.
type Worker interface {
	Up(ctx context.Context) error
	ClearState(ctx context.Context) error
	Scan(ctx context.Context) ([]string, error)
	Join(ctx context.Context, p *profile.Profile) error
}
