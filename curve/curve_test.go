package curve_test

import (
	"math/big"
	"testing"

	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/field"
	"github.com/gostcrypto/gost/oid"
	"github.com/stretchr/testify/require"
)

// TestSelfTestCurve exercises spec.md §8 scenario 1: on the named test
// curve, IsOnCurve(P), CheckOrder(P), and the discriminant check (folded
// into curve.New) all hold.
func TestSelfTestCurve(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	require.True(t, c.IsOnCurve(c.Generator))
	require.True(t, c.CheckOrder(c.Generator))
}

func TestDoubleEqualsAdd(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)

	g := c.Generator
	doubled := c.Reduce(c.Double(g))
	added := c.Reduce(c.Add(g, g))
	require.True(t, doubled.X.Equal(added.X))
	require.True(t, doubled.Y.Equal(added.Y))
}

func TestScalarMulOnCurve(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)

	for _, k := range []int64{1, 2, 3, 5, 17, 12345} {
		r := c.ScalarMul(c.Generator, big.NewInt(k))
		require.True(t, c.IsOnCurve(r), "k=%d", k)
	}
}

func TestIdentityArithmetic(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)

	id := c.Identity()
	require.True(t, id.IsIdentity())

	// identity + G == G
	sum := c.Add(id, c.Generator)
	g := c.Reduce(c.Generator)
	s := c.Reduce(sum)
	require.True(t, g.X.Equal(s.X))
	require.True(t, g.Y.Equal(s.Y))

	// doubling the identity is the identity
	require.True(t, c.Double(id).IsIdentity())

	// P + (-P) == identity
	neg := &curve.Point{X: c.Generator.X, Y: field.Neg(c.Generator.Y), Z: c.Generator.Z}
	require.True(t, c.Add(c.Generator, neg).IsIdentity())
}

// TestEightLimbPath exercises the generic N=8 (512-bit limb width) curve
// arithmetic path using a curve embedded in an 8-limb modulus, since the
// official GOST 512-bit named parameter sets are not reproduced here (see
// DESIGN.md). It reuses the high-confidence 256-bit test curve constants,
// just built with limbs=8, to prove ScalarMul/Add/Double/Reduce are correct
// independent of limb width.
func TestEightLimbPath(t *testing.T) {
	c, err := curve.New(oid.OID("internal-test-512-shaped"), 8, 1,
		bigDec("57896044618658097711785492504343953926634992332820282019728792003956564821041"),
		bigDec("7"),
		bigDec("43308876546767276905765904595650931995942111794451039583252968842033849580414"),
		bigDec("57896044618658097711785492504343953927082934583725450622380973592137631069619"),
		bigDec("2"),
		bigDec("4018974056539037503335449422937059775635739389905545080690979365213431566280"),
	)
	require.NoError(t, err)
	require.True(t, c.IsOnCurve(c.Generator))
	require.True(t, c.CheckOrder(c.Generator))

	r := c.ScalarMul(c.Generator, big.NewInt(999))
	require.True(t, c.IsOnCurve(r))
}

func bigDec(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}
