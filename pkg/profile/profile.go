// Copyright 2023 the wifijoin Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profile persists one network's join parameters per file, in
// the host's hostname.if(5) syntax, so a saved network can be replayed
// without retyping its passphrase.
package profile

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// WPA-PSK passphrase length bounds.
const (
	MinKeyLen = 8
	MaxKeyLen = 63
)

var (
	ErrInvalidProfile     = errors.New("no mode/ssid line found in profile")
	ErrPassphraseTooShort = fmt.Errorf("passphrase shorter than %d characters", MinKeyLen)
)

// ValidateKey enforces the WPA-PSK passphrase bounds. An empty key is
// valid and means an open network.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return nil
	case len(key) < MinKeyLen:
		return ErrPassphraseTooShort
	case len(key) > MaxKeyLen:
		return fmt.Errorf("passphrase longer than %d characters", MaxKeyLen)
	}
	return nil
}

// Profile is one saved network for one interface. The same SSID may
// need different settings on different radios, so profiles are scoped
// per interface.
type Profile struct {
	SSID   string
	Key    string // empty for an open network
	Iface  string
	HostAP bool
}

// Keyed reports whether the profile joins with a WPA passphrase.
func (p *Profile) Keyed() bool { return p.Key != "" }

// Filename is "<ssid>.<iface>".
func (p *Profile) Filename() string { return p.SSID + "." + p.Iface }

// String renders the persisted form: the governing join/nwid line, an
// optional hostap directive, then the autoconf trailer.
func (p *Profile) String() string {
	var b strings.Builder
	if p.Keyed() {
		fmt.Fprintf(&b, "join \"%s\" wpakey \"%s\"\n", p.SSID, p.Key)
	} else {
		fmt.Fprintf(&b, "nwid \"%s\"\n", p.SSID)
	}
	if p.HostAP {
		b.WriteString("mediaopt hostap\n")
	}
	b.WriteString("\ninet autoconf\n")
	return b.String()
}

// Store owns the profile directory. Profile bytes on disk only change
// through Write.
type Store struct {
	Dir string
}

var (
	// modeRE matches a governing mode line: join "<ssid>" wpakey
	// "<key>" for a keyed network, nwid "<ssid>" for an open one.
	modeRE   = regexp.MustCompile(`^\s*(join|nwid)\s+"([^"]+)"(?:\s+wpakey\s+"([^"]*)")?\s*$`)
	hostapRE = regexp.MustCompile(`^\s*media\S*\s+hostap`)
)

// List returns every saved profile name in directory order, skipping
// dotfiles. A missing directory is created owner-only and reported as
// an empty list, not an error.
func (s *Store) List() ([]string, error) {
	ents, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(s.Dir, 0700); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ListFor narrows List to the profiles saved for one interface.
func (s *Store) ListFor(iface string) ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if strings.HasSuffix(n, "."+iface) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Path returns the on-disk location of a saved profile.
func (s *Store) Path(name string) string { return filepath.Join(s.Dir, name) }

// Read parses a saved profile. When a file carries more than one mode
// line the last one governs, the same way the generator emits one
// governing line per save.
func (s *Store) Read(name string) (*Profile, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, err
	}
	p := &Profile{}
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if m := modeRE.FindStringSubmatch(line); m != nil {
			found = true
			p.SSID = m[2]
			if m[1] == "join" {
				p.Key = m[3]
			} else {
				p.Key = ""
			}
		}
		if hostapRE.MatchString(line) {
			p.HostAP = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidProfile)
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		p.Iface = name[i+1:]
	}
	return p, nil
}

// Write serializes p as <ssid>.<iface>, overwriting a previous save of
// the same network. A chmod failure leaves the file usable and is only
// logged.
func (s *Store) Write(p *Profile) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}
	path := s.Path(p.Filename())
	if err := os.WriteFile(path, []byte(p.String()), 0600); err != nil {
		return fmt.Errorf("write profile %s: %w", p.Filename(), err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		log.Printf("chmod %s: %v", path, err)
	}
	return nil
}
