// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wifi

import (
	"context"

	"github.com/bsdnet/wifijoin/pkg/profile"
)

var _ = Worker(&StubWorker{})

// StubWorker is a Worker for tests.
type StubWorker struct {
	SSIDs   []string
	UpErr   error
	ScanErr error
	JoinErr error

	UpCalled   bool
	ScanCalled bool
	Cleared    bool
	Joined     []*profile.Profile
}

func (w *StubWorker) Up(context.Context) error {
	w.UpCalled = true
	return w.UpErr
}

func (w *StubWorker) ClearState(context.Context) error {
	w.Cleared = true
	return nil
}

func (w *StubWorker) Scan(context.Context) ([]string, error) {
	w.ScanCalled = true
	if w.ScanErr != nil {
		return nil, w.ScanErr
	}
	if len(w.SSIDs) == 0 {
		return nil, ErrNoNetworksFound
	}
	return w.SSIDs, nil
}

func (w *StubWorker) Join(_ context.Context, p *profile.Profile) error {
	if w.JoinErr != nil {
		return w.JoinErr
	}
	w.Joined = append(w.Joined, p)
	return nil
}
