// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !openbsd

package sandbox

import "log"

// Restrict is advisory: hosts without an unveil/pledge mechanism log a
// warning and the flow proceeds unrestricted.
func Restrict(profileDir, confDir string) error {
	log.Print("sandboxing unavailable on this host, continuing unrestricted")
	return nil
}
