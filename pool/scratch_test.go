package pool_test

import (
	"testing"

	"github.com/momentics/hioload-tls/api"
	"github.com/momentics/hioload-tls/pool"
)

func TestScratchLifecycle(t *testing.T) {
	if _, err := pool.ScratchPool(); err != api.ErrPoolClosed {
		t.Errorf("expected ErrPoolClosed before init, got %v", err)
	}
	if err := pool.MpoolInit(); err != nil {
		t.Fatal(err)
	}
	defer pool.MpoolExit()

	// Second init is a no-op.
	if err := pool.MpoolInit(); err != nil {
		t.Fatal(err)
	}

	sp, err := pool.ScratchPool()
	if err != nil {
		t.Fatal(err)
	}
	m, err := sp.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Bytes() {
		m.Bytes()[i] = 0x5A
	}

	pool.CleanupCtx()
	// The same core's pool is rewound and wiped. Stats must show the reset
	// on at least one slot.
	var resets uint64
	for _, s := range pool.ScratchStats() {
		resets += s.Resets
	}
	if resets == 0 {
		t.Error("cleanup did not reset any scratch pool")
	}
}
