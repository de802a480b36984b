package pool_test

import (
	"testing"

	"github.com/momentics/hioload-tls/api"
	"github.com/momentics/hioload-tls/pool"
)

var ecFamilies = []api.ProfileID{
	api.ProfileECDH,
	api.ProfileECDHESecp256,
	api.ProfileECDHESecp384,
	api.ProfileECDHESecp521,
	api.ProfileECDHEBp256,
	api.ProfileECDHEBp384,
	api.ProfileECDHEBp512,
}

func TestClassifyRSAMatchesNoECFamily(t *testing.T) {
	rsa := &api.PublicKey{Alg: api.KeyAlgRSA}
	for _, id := range ecFamilies {
		if pool.Classify(id, rsa) {
			t.Errorf("RSA key classified into %v", id)
		}
	}
	if !pool.Classify(api.ProfileDHM, rsa) {
		t.Error("RSA key did not classify into DHM")
	}
}

func TestClassifyDisjointFamilies(t *testing.T) {
	ecdh := &api.PublicKey{Alg: api.KeyAlgECDH, Curve: api.CurveSecp256}
	ecdhe := &api.PublicKey{Alg: api.KeyAlgEC, Curve: api.CurveSecp256}
	for id := api.ProfileID(0); id < api.NumProfiles; id++ {
		if pool.Classify(id, ecdh) && pool.Classify(id, ecdhe) {
			t.Errorf("profile %v matches both static ECDH and ECDHE keys", id)
		}
	}
	if !pool.Classify(api.ProfileECDH, ecdh) {
		t.Error("id-ecDH key did not classify into ECDH")
	}
	if !pool.Classify(api.ProfileECDHESecp256, ecdhe) {
		t.Error("P-256 EC key did not classify into ECDHE-SECP256")
	}
}

func TestEnsureProfilesIdempotent(t *testing.T) {
	r := pool.NewRegistry()
	pk := &api.PublicKey{Alg: api.KeyAlgEC, Curve: api.CurveSecp256}
	if err := r.EnsureProfiles(pk); err != nil {
		t.Fatal(err)
	}
	if err := r.EnsureProfiles(pk); err != nil {
		t.Fatal(err)
	}
	if n := r.BuildCount(); n != 1 {
		t.Errorf("profile built %d times, want 1", n)
	}
	if r.ProfileFor(api.ProfileECDHESecp256) == nil {
		t.Error("profile slot not populated")
	}
}

func TestEnsureProfilesCompletesAndFastPaths(t *testing.T) {
	r := pool.NewRegistry()
	keys := []*api.PublicKey{
		{Alg: api.KeyAlgECDH, Curve: api.CurveSecp384},
		{Alg: api.KeyAlgRSA},
		{Alg: api.KeyAlgEC, Curve: api.CurveSecp256},
		{Alg: api.KeyAlgEC, Curve: api.CurveSecp384},
		{Alg: api.KeyAlgEC, Curve: api.CurveSecp521},
		{Alg: api.KeyAlgEC, Curve: api.CurveBp256},
		{Alg: api.KeyAlgEC, Curve: api.CurveBp384},
		{Alg: api.KeyAlgEC, Curve: api.CurveBp512},
	}
	for _, pk := range keys {
		if err := r.EnsureProfiles(pk); err != nil {
			t.Fatalf("%v/%v: %v", pk.Alg, pk.Curve, err)
		}
	}
	if !r.Complete() {
		t.Fatal("registry not complete after all families")
	}
	if s := r.Stats(); s.Populated != int(api.NumProfiles) {
		t.Errorf("populated %d of %d", s.Populated, api.NumProfiles)
	}

	before := r.BuildCount()
	if err := r.EnsureProfiles(keys[2]); err != nil {
		t.Fatal(err)
	}
	if r.BuildCount() != before {
		t.Error("fast path rebuilt a profile")
	}
}

func TestEnsureProfilesUnsupportedKey(t *testing.T) {
	r := pool.NewRegistry()
	if err := r.EnsureProfiles(&api.PublicKey{}); err != api.ErrUnsupportedKeyType {
		t.Errorf("expected ErrUnsupportedKeyType, got %v", err)
	}
	// EC key on an unknown curve matches nothing either.
	pk := &api.PublicKey{Alg: api.KeyAlgEC, Curve: api.CurveNone}
	if err := r.EnsureProfiles(pk); err != api.ErrUnsupportedKeyType {
		t.Errorf("expected ErrUnsupportedKeyType, got %v", err)
	}
}

func TestCombTableLen(t *testing.T) {
	cases := []struct{ bits, want int }{
		{256, 43},
		{384, 64},
		{512, 86},
		{521, 87},
	}
	for _, c := range cases {
		if got := pool.CombTableLen(c.bits); got != c.want {
			t.Errorf("CombTableLen(%d) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestAllocHandshakeCopiesProfile(t *testing.T) {
	r := pool.NewRegistry()
	pk := &api.PublicKey{Alg: api.KeyAlgEC, Curve: api.CurveSecp521}
	if err := r.EnsureProfiles(pk); err != nil {
		t.Fatal(err)
	}
	prof := r.ProfileFor(api.ProfileECDHESecp521)
	if prof == nil {
		t.Fatal("profile not built")
	}

	hs, err := r.AllocHandshake(api.ProfileECDHESecp521)
	if err != nil {
		t.Fatal(err)
	}
	defer hs.Free()
	if hs.Committed() != prof.Committed() || hs.Cursor() != prof.Cursor() {
		t.Errorf("handshake pool state %d/%d, profile %d/%d",
			hs.Cursor(), hs.Committed(), prof.Cursor(), prof.Committed())
	}
	// A handshake pool is private: writing to it must not touch the profile.
	m, err := hs.Alloc(8)
	if err != nil {
		t.Fatal(err)
	}
	m.Bytes()[0] = 0xFF
	if prof.Cursor() != hs.Cursor()-8 {
		t.Error("profile cursor moved by handshake allocation")
	}
}

func TestAllocHandshakeUnbuiltProfile(t *testing.T) {
	r := pool.NewRegistry()
	if _, err := r.AllocHandshake(api.ProfileDHM); err != api.ErrUnsupportedKeyType {
		t.Errorf("expected ErrUnsupportedKeyType, got %v", err)
	}
}

func TestECProfileFitsCombTable(t *testing.T) {
	// The largest curve must still fit its comb table in the built pool.
	r := pool.NewRegistry()
	pk := &api.PublicKey{Alg: api.KeyAlgEC, Curve: api.CurveSecp521}
	if err := r.EnsureProfiles(pk); err != nil {
		t.Fatal(err)
	}
	prof := r.ProfileFor(api.ProfileECDHESecp521)
	if prof.Committed() > prof.Cap() {
		t.Errorf("committed %d exceeds capacity %d", prof.Committed(), prof.Cap())
	}
	if prof.Cap()%pool.PageSize() != 0 {
		t.Errorf("profile capacity %d not a page multiple", prof.Cap())
	}
}
