// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build openbsd

// Package sandbox narrows the process to the files and executables the
// connection flow needs. Best effort; failure is a warning upstream,
// never fatal.
package sandbox

import "golang.org/x/sys/unix"

// Restrict unveils the profile and system configuration directories
// plus the fixed command paths, then pledges the remaining syscall
// surface. Called once, before any interactive work.
func Restrict(profileDir, confDir string) error {
	unveils := []struct {
		path, perms string
	}{
		{profileDir, "rwc"},
		{confDir, "rwc"},
		{"/sbin/ifconfig", "x"},
		{"/usr/sbin/dhcpleasectl", "x"},
		{"/usr/sbin/rcctl", "x"},
		{"/bin/cp", "x"},
	}
	for _, u := range unveils {
		if err := unix.Unveil(u.path, u.perms); err != nil {
			return err
		}
	}
	if err := unix.UnveilBlock(); err != nil {
		return err
	}
	return unix.Pledge("stdio rpath wpath cpath tty proc exec", "")
}
