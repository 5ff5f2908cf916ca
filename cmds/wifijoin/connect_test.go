package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bsdnet/wifijoin/pkg/execer"
	"github.com/bsdnet/wifijoin/pkg/profile"
	"github.com/bsdnet/wifijoin/pkg/prompt"
	"github.com/bsdnet/wifijoin/pkg/wifi"
)

// testSession wires a Session to scripted input, a stub worker, canned
// interface candidates, and a set of radios that refuse to come up.
func testSession(t *testing.T, in *prompt.Script, w *wifi.StubWorker, candidates []string, dead map[string]bool) (*Session, *execer.Recorder) {
	t.Helper()
	r := &execer.Recorder{}
	return &Session{
		Run: r,
		In:  in,
		Discover: func(context.Context) ([]string, error) {
			return candidates, nil
		},
		Probe: func(_ context.Context, name string) bool {
			return !dead[name]
		},
		NewWorker: func(string) wifi.Worker { return w },
		Store:     &profile.Store{Dir: t.TempDir()},
		ConfDir:   t.TempDir(),
		LeaseWait: 10 * time.Second,
		Services:  []string{"unwind", "resolvd"},
	}, r
}

func TestInterfaceFallback(t *testing.T) {
	// iwn0 is chosen but refuses to come up; the session must proceed
	// on iwn1 without asking again. The script holds exactly one line,
	// so a second prompt would fail the test with an exhausted script.
	in := &prompt.Script{Lines: []string{"1"}}
	s, _ := testSession(t, in, &wifi.StubWorker{}, []string{"iwn0", "iwn1"}, map[string]bool{"iwn0": true})

	name, err := s.pickInterface(context.Background())
	if err != nil {
		t.Fatalf("pickInterface: %v", err)
	}
	if name != "iwn1" {
		t.Errorf("want fallback to iwn1, got %q", name)
	}
}

func TestInterfaceMenuCancel(t *testing.T) {
	in := &prompt.Script{Lines: []string{""}}
	s, _ := testSession(t, in, &wifi.StubWorker{}, []string{"iwn0", "iwn1"}, nil)
	if _, err := s.pickInterface(context.Background()); !errors.Is(err, errQuit) {
		t.Errorf("want errQuit, got %v", err)
	}
}

func TestNoInterfaces(t *testing.T) {
	s, _ := testSession(t, &prompt.Script{}, &wifi.StubWorker{}, nil, nil)
	if _, err := s.pickInterface(context.Background()); err == nil {
		t.Error("want an error when no wireless interface exists")
	}
}

func TestAllInterfacesDeadRediscovers(t *testing.T) {
	// First discovery round yields only dead radios; the loop must warn
	// and discover again rather than give up.
	rounds := 0
	in := &prompt.Script{Lines: []string{"1"}}
	s, _ := testSession(t, in, &wifi.StubWorker{}, nil, nil)
	s.Discover = func(context.Context) ([]string, error) {
		rounds++
		if rounds == 1 {
			return []string{"iwn0", "iwn1"}, nil
		}
		return []string{"athn0"}, nil
	}
	s.Probe = func(_ context.Context, name string) bool { return name == "athn0" }

	name, err := s.pickInterface(context.Background())
	if err != nil {
		t.Fatalf("pickInterface: %v", err)
	}
	if name != "athn0" {
		t.Errorf("want athn0 from the second round, got %q", name)
	}
	if rounds != 2 {
		t.Errorf("want 2 discovery rounds, got %d", rounds)
	}
}

func TestScanAndCreateFlow(t *testing.T) {
	// Empty store, one visible network: pick it, set a passphrase,
	// decline host-AP mode.
	in := &prompt.Script{Lines: []string{"1", "supersecret", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, r := testSession(t, in, w, []string{"iwn0"}, nil)

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if !w.Cleared {
		t.Error("association state was not cleared before configuring")
	}
	if !w.UpCalled {
		t.Error("interface was not brought up before scanning")
	}

	data, err := os.ReadFile(s.Store.Path("HomeNet.iwn0"))
	if err != nil {
		t.Fatalf("profile file: %v", err)
	}
	if !strings.Contains(string(data), `join "HomeNet" wpakey "supersecret"`) {
		t.Errorf("profile content: %q", data)
	}

	if len(w.Joined) != 1 || w.Joined[0].SSID != "HomeNet" || w.Joined[0].Key != "supersecret" {
		t.Errorf("join got %+v", w.Joined)
	}

	want := [][]string{
		{"cp", s.Store.Path("HomeNet.iwn0"), filepath.Join(s.ConfDir, "hostname.iwn0")},
		{"dhcpleasectl", "-w", "10", "iwn0"},
		{"rcctl", "restart", "unwind"},
		{"rcctl", "restart", "resolvd"},
	}
	if !reflect.DeepEqual(r.Calls, want) {
		t.Errorf("external commands:\nwant %v\ngot  %v", want, r.Calls)
	}
}

func TestOpenNetworkProfile(t *testing.T) {
	// An empty passphrase means an open network, persisted as a bare
	// nwid line.
	in := &prompt.Script{Lines: []string{"1", "", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"cafe wifi"}}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	data, err := os.ReadFile(s.Store.Path("cafe wifi.iwn0"))
	if err != nil {
		t.Fatalf("profile file: %v", err)
	}
	if !strings.Contains(string(data), `nwid "cafe wifi"`) || strings.Contains(string(data), "wpakey") {
		t.Errorf("profile content: %q", data)
	}
}

func TestReplaySavedProfile(t *testing.T) {
	in := &prompt.Script{Lines: []string{"1"}}
	w := &wifi.StubWorker{}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)
	saved := &profile.Profile{SSID: "Office", Key: "workwork1", Iface: "iwn0"}
	if err := s.Store.Write(saved); err != nil {
		t.Fatal(err)
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if w.ScanCalled {
		t.Error("scan performed despite replaying a saved profile")
	}
	if len(w.Joined) != 1 || w.Joined[0].SSID != "Office" || w.Joined[0].Key != "workwork1" {
		t.Errorf("join got %+v", w.Joined)
	}
}

func TestEmptyProfileChoiceFallsToScan(t *testing.T) {
	// Enter at the saved-network menu routes to scan-and-create.
	in := &prompt.Script{Lines: []string{"", "1", "newsecret1", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)
	if err := s.Store.Write(&profile.Profile{SSID: "Office", Key: "workwork1", Iface: "iwn0"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !w.ScanCalled {
		t.Error("expected a scan after the empty saved-network reply")
	}
	if len(w.Joined) != 1 || w.Joined[0].SSID != "HomeNet" {
		t.Errorf("join got %+v", w.Joined)
	}
}

func TestScanMenuCancel(t *testing.T) {
	// Enter at the network-choice menu cancels the run; nothing may be
	// written and nothing joined.
	in := &prompt.Script{Lines: []string{""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)

	err := s.Connect(context.Background())
	if !errors.Is(err, prompt.ErrCanceled) {
		t.Fatalf("want ErrCanceled, got %v", err)
	}
	names, _ := s.Store.List()
	if len(names) != 0 {
		t.Errorf("profile written on cancel: %v", names)
	}
	if len(w.Joined) != 0 {
		t.Errorf("join attempted on cancel: %+v", w.Joined)
	}
}

func TestShortPassphrase(t *testing.T) {
	in := &prompt.Script{Lines: []string{"1", "short"}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)

	err := s.Connect(context.Background())
	if !errors.Is(err, profile.ErrPassphraseTooShort) {
		t.Fatalf("want ErrPassphraseTooShort, got %v", err)
	}
	names, _ := s.Store.List()
	if len(names) != 0 {
		t.Errorf("profile written despite rejected passphrase: %v", names)
	}
}

func TestJoinFailureKeepsProfile(t *testing.T) {
	// No rollback: a profile that was saved before a failed join stays
	// on disk for reuse.
	in := &prompt.Script{Lines: []string{"1", "supersecret", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}, JoinErr: wifi.ErrJoinFailed}
	s, _ := testSession(t, in, w, []string{"iwn0"}, nil)

	if err := s.Connect(context.Background()); !errors.Is(err, wifi.ErrJoinFailed) {
		t.Fatalf("want ErrJoinFailed, got %v", err)
	}
	if _, err := os.Stat(s.Store.Path("HomeNet.iwn0")); err != nil {
		t.Errorf("saved profile missing after failed join: %v", err)
	}
}

func TestServiceRestartFailureDoesNotAbort(t *testing.T) {
	in := &prompt.Script{Lines: []string{"1", "supersecret", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, r := testSession(t, in, w, []string{"iwn0"}, nil)
	r.Results = map[string][]execer.Result{
		"rcctl": {{Err: errors.New("exit status 1")}, {Err: errors.New("exit status 1")}},
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Errorf("service restart failure must not abort the run: %v", err)
	}
}

func TestLeaseFailure(t *testing.T) {
	in := &prompt.Script{Lines: []string{"1", "supersecret", ""}}
	w := &wifi.StubWorker{SSIDs: []string{"HomeNet"}}
	s, r := testSession(t, in, w, []string{"iwn0"}, nil)
	r.Results = map[string][]execer.Result{
		"dhcpleasectl": {{Err: errors.New("exit status 1")}},
	}

	if err := s.Connect(context.Background()); !errors.Is(err, errLeaseFailed) {
		t.Errorf("want errLeaseFailed, got %v", err)
	}
}
