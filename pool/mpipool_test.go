package pool_test

import (
	"math"
	"testing"

	"github.com/momentics/hioload-tls/api"
	"github.com/momentics/hioload-tls/pool"
)

func TestAllocFailsExactlyAtCapacity(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()

	c := p.Cap()
	step := 64
	var sum int
	for sum+step <= c {
		if _, err := p.Alloc(step); err != nil {
			t.Fatalf("alloc failed at %d of %d", sum, c)
		}
		sum += step
	}
	// Remaining tail still fits.
	if rest := c - sum; rest > 0 {
		if _, err := p.Alloc(rest); err != nil {
			t.Fatalf("tail alloc of %d failed", rest)
		}
	}
	// The first byte past capacity must fail.
	if _, err := p.Alloc(1); err != api.ErrOutOfCapacity {
		t.Errorf("expected ErrOutOfCapacity, got %v", err)
	}
}

func TestOversizedAllocFails(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	if _, err := p.Alloc(p.Cap() + 1); err != api.ErrOutOfCapacity {
		t.Errorf("expected ErrOutOfCapacity, got %v", err)
	}
	// Failure must not consume capacity.
	if _, err := p.Alloc(p.Cap()); err != nil {
		t.Errorf("full-capacity alloc after failed alloc: %v", err)
	}
}

func TestHugeAllocDoesNotWrap(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	if _, err := p.Alloc(16); err != nil {
		t.Fatal(err)
	}
	// A request near MaxInt must fail cleanly instead of wrapping the
	// cursor arithmetic past the capacity check.
	if _, err := p.Alloc(math.MaxInt); err != api.ErrOutOfCapacity {
		t.Errorf("expected ErrOutOfCapacity, got %v", err)
	}
	if _, err := p.Alloc(math.MaxInt - 8); err != api.ErrOutOfCapacity {
		t.Errorf("expected ErrOutOfCapacity, got %v", err)
	}
	if p.Cursor() != 16 {
		t.Errorf("cursor %d moved by failed allocations", p.Cursor())
	}
}

func TestResetZeroesUsedRegion(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()

	m, err := p.Alloc(128)
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Bytes() {
		m.Bytes()[i] = 0xA5
	}
	p.Reset()
	if p.Cursor() != 0 {
		t.Errorf("cursor %d after reset", p.Cursor())
	}

	m2, err := p.Alloc(128)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range m2.Bytes() {
		if b != 0 {
			t.Fatalf("sentinel survived reset at byte %d", i)
		}
	}
	// The committed high-water mark survives reset.
	if p.Committed() != 128 {
		t.Errorf("committed %d after reset, want 128", p.Committed())
	}
}

func TestMpiCarriesArenaHandle(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	m, err := p.Alloc(32)
	if err != nil {
		t.Fatal(err)
	}
	if m.Pool() != p {
		t.Error("Mpi does not reference its owning pool")
	}
	if m.Len() != 32 || len(m.Bytes()) != 32 {
		t.Error("Mpi window size mismatch")
	}
}

func TestAllocAdvancesCursorAndCommitted(t *testing.T) {
	p, err := pool.New(pool.PageSize())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	p.Alloc(40)
	p.Alloc(24)
	if p.Cursor() != 64 || p.Committed() != 64 {
		t.Errorf("cursor=%d committed=%d, want 64/64", p.Cursor(), p.Committed())
	}
}

func TestNewReserved(t *testing.T) {
	p, m, err := pool.NewReserved(256)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	if m.Len() != 256 || p.Cursor() != 256 {
		t.Errorf("reserved region not pre-allocated: len=%d cursor=%d", m.Len(), p.Cursor())
	}
}

func TestCapacityIsPageMultiple(t *testing.T) {
	p, err := pool.New(1)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Free()
	if p.Cap() != pool.PageSize() {
		t.Errorf("capacity %d, want one page %d", p.Cap(), pool.PageSize())
	}
	q, err := pool.New(pool.PageSize() + 1)
	if err != nil {
		t.Fatal(err)
	}
	defer q.Free()
	if q.Cap() != 2*pool.PageSize() {
		t.Errorf("capacity %d, want two pages", q.Cap())
	}
}
