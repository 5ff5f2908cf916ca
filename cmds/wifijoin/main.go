// Command wifijoin interactively configures a wireless interface: pick
// a radio, replay a saved network or scan for a new one, join it, lease
// an address, and restart the resolvers that depend on the link.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/bsdnet/wifijoin/pkg/execer"
	"github.com/bsdnet/wifijoin/pkg/iface"
	"github.com/bsdnet/wifijoin/pkg/profile"
	"github.com/bsdnet/wifijoin/pkg/prompt"
	"github.com/bsdnet/wifijoin/pkg/sandbox"
	"github.com/bsdnet/wifijoin/pkg/wifi"
)

var (
	v         = flag.BoolP("verbose", "v", false, "verbose output")
	dir       = flag.String("dir", "/etc/wifijoin", "profile directory")
	confDir   = flag.String("confdir", "/etc", "system interface configuration directory")
	leaseWait = flag.Duration("lease-wait", 10*time.Second, "how long to wait for an address lease")
	verbose   = func(string, ...interface{}) {}
)

// name resolvers bounced after a successful connection
var services = []string{"unwind", "resolvd"}

var errPermissionDenied = errors.New("permission denied: root is required")

func main() {
	flag.Parse()
	if *v {
		verbose = log.Printf
	}

	if os.Geteuid() != 0 {
		log.Print(errPermissionDenied)
		os.Exit(1)
	}

	if err := sandbox.Restrict(*dir, *confDir); err != nil {
		log.Printf("sandbox: %v", err)
	}

	run := &execer.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	s := &Session{
		Run: run,
		In:  prompt.NewTerminal(),
		Discover: func(ctx context.Context) ([]string, error) {
			return iface.Discover(ctx, run)
		},
		Probe: func(ctx context.Context, name string) bool {
			return iface.Probe(ctx, run, name)
		},
		NewWorker: func(name string) wifi.Worker {
			return wifi.NewIfconfigWorker(run, name)
		},
		Store:     &profile.Store{Dir: *dir},
		ConfDir:   *confDir,
		LeaseWait: *leaseWait,
		Services:  services,
	}

	if err := s.Connect(context.Background()); err != nil {
		if errors.Is(err, errQuit) {
			os.Exit(0)
		}
		log.Print(err)
		os.Exit(1)
	}
}
