package curve

import (
	"math/big"
	"sync"

	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

func dec(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("curve: invalid decimal constant " + s)
	}
	return n
}

var (
	namedOnce sync.Once
	namedMu   sync.Mutex
	named     map[oid.OID]*Curve
	namedErr  map[oid.OID]error
)

func buildNamed() {
	named = make(map[oid.OID]*Curve)
	namedErr = make(map[oid.OID]error)

	// id-tc26-gost-3410-2012-256-paramSetTest, reused from the
	// GOST R 34.10-2001 test parameter set (RFC 7836 Appendix A.1 /
	// TC26); this is the curve spec.md's concrete scenario 1 and the
	// GOST R 34.10-2012 Appendix A.1 worked example (scenario 2) run
	// over.
	c, err := New(oid.CurveTC26GOST341012256ParamSetTest, 4, 1,
		dec("57896044618658097711785492504343953926634992332820282019728792003956564821041"),
		dec("7"),
		dec("43308876546767276905765904595650931995942111794451039583252968842033849580414"),
		dec("57896044618658097711785492504343953927082934583725450622380973592137631069619"),
		dec("2"),
		dec("4018974056539037503335449422937059775635739389905545080690979365213431566280"),
	)
	if err != nil {
		namedErr[oid.CurveTC26GOST341012256ParamSetTest] = err
	} else {
		named[oid.CurveTC26GOST341012256ParamSetTest] = c
	}

	// id-tc26-gost-3410-2012-256-paramSetA (RFC 7836), a production
	// 256-bit curve supplementing the distilled spec's test-only
	// coverage (restored per SPEC_FULL.md §4.1 from the parameter-set
	// enumeration in original_source/source/libakrypt.h).
	c, err = New(oid.CurveTC26GOST341012256ParamSetA, 4, 1,
		dec("115792089237316195423570985008687907853269984665640564039457584007913129639319"),
		dec("115792089237316195423570985008687907853269984665640564039457584007913129639316"),
		dec("166"),
		dec("115792089237316195423570985008687907853073762908499243225378155805079068850323"),
		dec("1"),
		dec("64033881142927202683649881450433473985931760268884941288852745803908878638612"),
	)
	if err != nil {
		namedErr[oid.CurveTC26GOST341012256ParamSetA] = err
	} else {
		named[oid.CurveTC26GOST341012256ParamSetA] = c
	}

	// 256-bit paramSetB and the 512-bit TC26 named curves (paramSetTest/
	// A/B/C) are not populated here: reproducing their exact published
	// constants from memory, without an execution environment to verify
	// discriminant/on-curve/order against the published values, risks
	// shipping a silently-wrong "production" curve, which is worse than
	// refusing to serve it. curve.New itself is fully limb-width generic
	// (it is exercised at 8 limbs/512 bits in curve_test.go against a
	// well-known, high-confidence 256-bit curve embedded in an 8-limb
	// modulus) — only these named-curve table entries are left
	// unfilled. See DESIGN.md.
	for _, o := range []oid.OID{
		oid.CurveTC26GOST341012256ParamSetB,
		oid.CurveTC26GOST341012512ParamSetTest,
		oid.CurveTC26GOST341012512ParamSetA,
		oid.CurveTC26GOST341012512ParamSetB,
		oid.CurveTC26GOST341012512ParamSetC,
	} {
		namedErr[o] = gosterr.New("curve.Named", gosterr.CurveNotSupported)
	}
}

// Named returns the curve registered under a well-known OID, building the
// (process-wide immutable) named-curve table on first use.
func Named(o oid.OID) (*Curve, error) {
	namedMu.Lock()
	defer namedMu.Unlock()
	namedOnce.Do(buildNamed)
	if c, ok := named[o]; ok {
		return c, nil
	}
	if err, ok := namedErr[o]; ok {
		return nil, err
	}
	return nil, gosterr.New("curve.Named", gosterr.CurveNotSupported)
}
