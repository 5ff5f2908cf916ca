package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bsdnet/wifijoin/pkg/execer"
	"github.com/bsdnet/wifijoin/pkg/iface"
	"github.com/bsdnet/wifijoin/pkg/profile"
	"github.com/bsdnet/wifijoin/pkg/prompt"
	"github.com/bsdnet/wifijoin/pkg/wifi"
)

// errQuit is a user-initiated exit from the interface menu. It is not a
// failure and maps to exit status 0.
var errQuit = errors.New("quit")

var (
	errConfigCopy  = errors.New("copying configuration failed")
	errLeaseFailed = errors.New("lease request failed")
)

// Session carries everything one connection run needs, threaded
// explicitly instead of living in globals. Discover and Probe default
// to the iface package; tests swap in pure functions.
type Session struct {
	Run       execer.Runner
	In        prompt.LineReader
	Discover  func(ctx context.Context) ([]string, error)
	Probe     func(ctx context.Context, name string) bool
	NewWorker func(name string) wifi.Worker
	Store     *profile.Store
	ConfDir   string
	LeaseWait time.Duration
	Services  []string
}

// Connect drives the whole flow: interface, profile, join, lease,
// dependent services. Every step blocks until its exit status is known;
// every step but the service restart aborts the run on failure.
func (s *Session) Connect(ctx context.Context) error {
	name, err := s.pickInterface(ctx)
	if err != nil {
		return err
	}

	w := s.NewWorker(name)
	if err := w.ClearState(ctx); err != nil {
		verbose("clearing %s association state: %v", name, err)
	}

	p, err := s.pickProfile(ctx, w, name)
	if err != nil {
		return err
	}

	if err := s.apply(ctx, w, p); err != nil {
		return err
	}

	if err := s.lease(ctx, p.Iface); err != nil {
		return err
	}

	s.restartServices(ctx)
	log.Printf("connected %s to %q", p.Iface, p.SSID)
	return nil
}

// pickInterface discovers wireless interfaces and activates one. The
// chosen candidate is probed first, then the remaining candidates in
// discovery order, so a radio that cannot come up is skipped without
// re-prompting. When every candidate fails, discovery starts over.
func (s *Session) pickInterface(ctx context.Context) (string, error) {
	for {
		candidates, err := s.Discover(ctx)
		if err != nil {
			return "", err
		}
		chosen, err := iface.Choose(s.In, candidates)
		if errors.Is(err, prompt.ErrCanceled) {
			return "", errQuit
		}
		if err != nil {
			return "", err
		}
		order := []string{chosen}
		for _, c := range candidates {
			if c != chosen {
				order = append(order, c)
			}
		}
		for _, c := range order {
			if s.Probe(ctx, c) {
				if c != chosen {
					log.Printf("%s could not be activated, using %s", chosen, c)
				}
				return c, nil
			}
		}
		log.Printf("%v, rediscovering", iface.ErrInterfaceUnavailable)
	}
}

// pickProfile offers the networks already saved for this interface. An
// empty reply, or nothing saved, falls through to scanning for a new
// one.
func (s *Session) pickProfile(ctx context.Context, w wifi.Worker, name string) (*profile.Profile, error) {
	saved, err := s.Store.ListFor(name)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return s.scanAndCreate(ctx, w, name)
	}
	i, err := prompt.Choose(s.In, "Saved networks:", saved)
	if errors.Is(err, prompt.ErrCanceled) {
		return s.scanAndCreate(ctx, w, name)
	}
	if err != nil {
		return nil, err
	}
	return s.Store.Read(saved[i])
}

// scanAndCreate scans for visible networks and builds a new profile
// from the operator's choice. The profile is saved before the join is
// attempted: a failed join still leaves it on disk for reuse, without
// retyping the passphrase.
func (s *Session) scanAndCreate(ctx context.Context, w wifi.Worker, name string) (*profile.Profile, error) {
	if err := w.Up(ctx); err != nil {
		return nil, fmt.Errorf("bringing %s up: %w", name, err)
	}
	ssids, err := w.Scan(ctx)
	if err != nil {
		return nil, err
	}
	i, err := prompt.Choose(s.In, "Visible networks:", ssids)
	if err != nil {
		return nil, err
	}

	key, err := s.In.ReadPassword("Passphrase (empty for an open network): ")
	if err != nil {
		return nil, err
	}
	if err := profile.ValidateKey(key); err != nil {
		return nil, err
	}

	hostap, err := s.In.ReadLine("Host access point mode? [y/N] ")
	if err != nil {
		return nil, err
	}

	p := &profile.Profile{
		SSID:   ssids[i],
		Key:    key,
		Iface:  name,
		HostAP: strings.EqualFold(hostap, "y"),
	}
	if err := s.Store.Write(p); err != nil {
		return nil, err
	}
	log.Printf("saved profile %s", p.Filename())
	return p, nil
}

// apply joins the network, then establishes the profile as the
// interface's boot-time configuration by copying its exact persisted
// text into place.
func (s *Session) apply(ctx context.Context, w wifi.Worker, p *profile.Profile) error {
	if err := w.Join(ctx, p); err != nil {
		return err
	}
	dst := filepath.Join(s.ConfDir, "hostname."+p.Iface)
	if err := s.Run.Run(ctx, "cp", s.Store.Path(p.Filename()), dst); err != nil {
		return fmt.Errorf("%w: %v", errConfigCopy, err)
	}
	verbose("wrote %s", dst)
	return nil
}

// lease requests an address under a bounded wait. There is no fallback
// lease mechanism; a timeout here is terminal.
func (s *Session) lease(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.LeaseWait+time.Second)
	defer cancel()
	secs := int(s.LeaseWait / time.Second)
	if err := s.Run.Run(ctx, "dhcpleasectl", "-w", strconv.Itoa(secs), name); err != nil {
		return fmt.Errorf("%w: %v", errLeaseFailed, err)
	}
	return nil
}

// restartServices bounces the resolvers that cache state across a
// network change. The link itself is already usable at this point, so a
// failure is reported but does not abort the run.
func (s *Session) restartServices(ctx context.Context) {
	for _, svc := range s.Services {
		if err := s.Run.Run(ctx, "rcctl", "restart", svc); err != nil {
			log.Printf("restarting %s: %v", svc, err)
		}
	}
}
