// File: pool/profile.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Static memory profiles for all key-exchange families. A profile pool holds
// every big-number region one handshake type needs, pregenerated once at
// certificate load time and reused for every later handshake of that family.
// Handshakes copy the committed region in one shot instead of allocating.

package pool

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-tls/api"
)

// ecpWindowOrder is the fixed-window order of the EC comb multiplication;
// a curve needs ceil(bits/ecpWindowOrder) precomputed points.
const ecpWindowOrder = 6

// limb is the big-number word size in bytes.
const limb = 8

// Registry is a fixed table of profile pools keyed by ProfileID. Slots are
// populated under a mutex and published atomically; readers never lock.
// Once populated a slot is never replaced or freed until process teardown.
type Registry struct {
	mu       sync.Mutex
	slots    [api.NumProfiles]atomic.Pointer[MpiPool]
	hasEmpty atomic.Bool
	builds   atomic.Uint64
}

// NewRegistry returns an empty profile registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.hasEmpty.Store(true)
	return r
}

// DefaultProfiles is the process-wide registry torn down by MpoolExit.
var DefaultProfiles = NewRegistry()

// Classify reports whether a certificate key descriptor selects the given
// profile. The mapping is a pure predicate:
//
//	id-ecDH keys        -> the static ECDH profile
//	id-ecPublicKey keys -> the ECDHE profile of the key's named curve
//	rsaEncryption keys  -> the DHM profile (DHE key exchange)
func Classify(id api.ProfileID, pk *api.PublicKey) bool {
	switch pk.Alg {
	case api.KeyAlgECDH:
		return id == api.ProfileECDH
	case api.KeyAlgEC:
		return id == ecdheProfile(pk.Curve)
	case api.KeyAlgRSA:
		return id == api.ProfileDHM
	}
	return false
}

func ecdheProfile(c api.CurveID) api.ProfileID {
	switch c {
	case api.CurveSecp256:
		return api.ProfileECDHESecp256
	case api.CurveSecp384:
		return api.ProfileECDHESecp384
	case api.CurveSecp521:
		return api.ProfileECDHESecp521
	case api.CurveBp256:
		return api.ProfileECDHEBp256
	case api.CurveBp384:
		return api.ProfileECDHEBp384
	case api.CurveBp512:
		return api.ProfileECDHEBp512
	}
	return -1
}

// EnsureProfiles builds every still-empty profile slot the key descriptor
// classifies into. Building blocks (page acquisition, EC precomputation) and
// must only be called from certificate/vhost loading contexts, never from a
// receive path. Idempotent: once every slot is filled a one-shot flag
// short-circuits all future calls, which matters for massive vhost
// configurations invoking this once per certificate.
//
// Returns ErrUnsupportedKeyType when no profile matches the key, aborting
// the certificate load.
func (r *Registry) EnsureProfiles(pk *api.PublicKey) error {
	// All profiles already filled by previous certificates.
	if !r.hasEmpty.Load() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	matched := false
	filled := 0
	for id := api.ProfileID(0); id < api.NumProfiles; id++ {
		if r.slots[id].Load() != nil {
			filled++
			if Classify(id, pk) {
				matched = true
			}
			continue
		}
		if !Classify(id, pk) {
			continue
		}
		matched = true

		mp, err := r.build(id, pk)
		if err != nil {
			log.Printf("[mpool] cannot build profile %v for key %v: %v", id, pk.Alg, err)
			return err
		}
		r.slots[id].Store(mp)
		r.builds.Add(1)
		filled++
	}
	if filled == int(api.NumProfiles) {
		r.hasEmpty.Store(false)
	}
	if !matched {
		log.Printf("[mpool] no memory profile matches key %v/%v", pk.Alg, pk.Curve)
		return api.ErrUnsupportedKeyType
	}
	return nil
}

// build constructs one profile pool. EC profiles reserve the full handshake
// working set including the comb precomputation table. The DHM profile is a
// bare fixed-capacity pool: DHE parameters are loaded per-handshake, so
// nothing useful can be pregenerated for it.
func (r *Registry) build(id api.ProfileID, pk *api.PublicKey) (*MpiPool, error) {
	switch id {
	case api.ProfileDHM:
		return New(pageSize)
	case api.ProfileECDH:
		return buildEC(pk.Curve)
	default:
		return buildEC(profileCurve(id))
	}
}

func profileCurve(id api.ProfileID) api.CurveID {
	switch id {
	case api.ProfileECDHESecp256:
		return api.CurveSecp256
	case api.ProfileECDHESecp384:
		return api.CurveSecp384
	case api.ProfileECDHESecp521:
		return api.CurveSecp521
	case api.ProfileECDHEBp256:
		return api.CurveBp256
	case api.ProfileECDHEBp384:
		return api.CurveBp384
	case api.ProfileECDHEBp512:
		return api.CurveBp512
	}
	return api.CurveNone
}

// CombTableLen returns the number of precomputed comb points a curve of the
// given bit length needs.
func CombTableLen(bits int) int {
	return (bits + ecpWindowOrder - 1) / ecpWindowOrder
}

// buildEC lays out one EC handshake working set: group modulus and order,
// the generator, one temporary point for the shared-secret computation, and
// the comb table of precomputed points. Different curves need different
// table sizes; sizing happens here, at vhost initialization, not in the
// handshake hot path.
func buildEC(curve api.CurveID) (*MpiPool, error) {
	bits := curve.Bits()
	if bits == 0 {
		return nil, api.ErrUnsupportedKeyType
	}
	coord := (bits + limb*8 - 1) / (limb * 8) * limb
	point := 3 * coord // X, Y, Z
	d := CombTableLen(bits)

	need := 2*coord + // group modulus P and order N
		point + // generator G
		point + // temporary point for compute-shared
		d*point // comb table T

	mp, err := New(need)
	if err != nil {
		return nil, err
	}
	// Reserve the regions in layout order. The numeric fill-in is the EC
	// backend's job; the profile owns the memory shape.
	for _, n := range []int{coord, coord, point, point} {
		if _, err := mp.Alloc(n); err != nil {
			mp.Free()
			return nil, err
		}
	}
	for i := 0; i < d; i++ {
		if _, err := mp.Alloc(point); err != nil {
			mp.Free()
			return nil, err
		}
	}
	return mp, nil
}

// ProfileFor returns the profile pool for a family, or nil if no certificate
// required it yet. O(1); safe for concurrent readers.
func (r *Registry) ProfileFor(id api.ProfileID) *MpiPool {
	if id < 0 || id >= api.NumProfiles {
		api.ContractViolation("profile id %d out of range", id)
	}
	return r.slots[id].Load()
}

// AllocHandshake instantiates a ready-to-use handshake pool by copying the
// profile's committed region into a fresh region of the same capacity. The
// profile itself is never written after build.
func (r *Registry) AllocHandshake(id api.ProfileID) (*MpiPool, error) {
	prof := r.ProfileFor(id)
	if prof == nil {
		return nil, api.ErrUnsupportedKeyType
	}
	hs, err := New(prof.Cap())
	if err != nil {
		return nil, err
	}
	copy(hs.buf[:prof.size], prof.buf[:prof.size])
	hs.curr = prof.curr
	hs.size = prof.size
	return hs, nil
}

// BuildCount returns how many profile pools were built so far.
func (r *Registry) BuildCount() uint64 { return r.builds.Load() }

// Complete reports whether every profile slot is populated, i.e. whether
// EnsureProfiles is on its zero-work fast path.
func (r *Registry) Complete() bool { return !r.hasEmpty.Load() }

// Stats snapshots the registry for debug probes.
func (r *Registry) Stats() RegistryStats {
	s := RegistryStats{Builds: r.builds.Load(), Complete: r.Complete()}
	for id := api.ProfileID(0); id < api.NumProfiles; id++ {
		if r.slots[id].Load() != nil {
			s.Populated++
		}
	}
	return s
}

// RegistryStats is a point-in-time snapshot of the profile registry.
type RegistryStats struct {
	Populated int
	Builds    uint64
	Complete  bool
}

// free releases every populated profile. Process teardown only.
func (r *Registry) free() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := api.ProfileID(0); id < api.NumProfiles; id++ {
		if mp := r.slots[id].Load(); mp != nil {
			mp.Free()
			r.slots[id].Store(nil)
		}
	}
	r.hasEmpty.Store(true)
}
