package collectives

import (
	"fmt"
	"sync"
	"testing"

	"github.com/zeromq/collectives/codec"
	"github.com/zeromq/collectives/config"
)

// runGroup builds and initializes N real Groups bound to loopback
// addresses starting at basePort, running each rank's Initialize
// concurrently (bootstrap is synchronous and blocking across the group,
// so every rank must be making progress at once).
func runGroup(t *testing.T, n, basePort int) ([]*Group, func()) {
	t.Helper()

	addrs := make([]string, n)
	for i := 0; i < n; i++ {
		addrs[i] = fmt.Sprintf("127.0.0.1:%d", basePort+i)
	}

	groups := make([]*Group, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for r := 0; r < n; r++ {
		cfg := &config.Config{NRanks: n, Rank: r, Addresses: addrs}
		g, err := New(cfg, codec.Gob{})
		if err != nil {
			t.Fatalf("rank %d: New: %v", r, err)
		}
		groups[r] = g
	}

	wg.Add(n)
	for r := 0; r < n; r++ {
		go func(r int) {
			defer wg.Done()
			errs[r] = groups[r].Initialize()
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: Initialize: %v", r, err)
		}
	}

	cleanup := func() {
		for _, g := range groups {
			g.Finalize()
		}
	}
	return groups, cleanup
}

func TestBootstrapFullMesh(t *testing.T) {
	for _, n := range []int{2, 4} {
		n := n
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			groups, cleanup := runGroup(t, n, 19100+n*10)
			defer cleanup()

			for r, g := range groups {
				if g.Rank() != r || g.NRanks() != n {
					t.Fatalf("rank %d: got Rank()=%d NRanks()=%d", r, g.Rank(), g.NRanks())
				}
			}
		})
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	groups, cleanup := runGroup(t, 2, 19400)
	defer cleanup()

	if err := groups[0].Finalize(); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if err := groups[0].Finalize(); err != nil {
		t.Fatalf("second finalize: %v", err)
	}
}

func TestInitializeRejectsSecondCall(t *testing.T) {
	groups, cleanup := runGroup(t, 2, 19500)
	defer cleanup()

	if err := groups[0].Initialize(); err == nil {
		t.Fatalf("expected error calling Initialize a second time")
	}
}

func TestCollectiveRejectsUninitializedGroup(t *testing.T) {
	cfg := &config.Config{NRanks: 2, Rank: 0, Addresses: []string{"127.0.0.1:19600", "127.0.0.1:19601"}}
	g, err := New(cfg, codec.Gob{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Finalize()

	x := 1
	if err := Broadcast(g, &x); err == nil {
		t.Fatalf("expected error broadcasting before Initialize")
	}
}
