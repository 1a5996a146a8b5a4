package signature

import (
	"math/big"
	"testing"

	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/oid"
	"github.com/stretchr/testify/require"
)

// TestSignWithKMatchesAppendixA1 reproduces GOST R 34.10-2012 Appendix
// A.1's worked example over the 256-bit test curve: a pinned (d, k, e)
// triple and its published (r, s) signature. signWithK is the only seam
// that can exercise this, since Sign always samples k internally.
func TestSignWithKMatchesAppendixA1(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)

	d, _ := new(big.Int).SetString("55441196065363246126355624130324183196576709222340016572108097750006097525544", 10)
	k, _ := new(big.Int).SetString("53854137677348463731403841147996619241504003434302020712960838528893196233395", 10)
	e, _ := new(big.Int).SetString("20798893674476452017134061561508270130637142515379653289952617252661468872421", 10)
	wantR, _ := new(big.Int).SetString("29700980915817952874371204983938256990422752107994319651632687982059210933395", 10)
	wantS, _ := new(big.Int).SetString("574973400270084654178924238218318785578110811891929391080189026597766361086", 10)

	sk, err := NewSignKey(c, oid.SignWithStreebog256, d, "")
	require.NoError(t, err)

	sig, err := signWithK(sk, e, k)
	require.NoError(t, err)
	require.Equal(t, 0, sig.R.Cmp(wantR), "r mismatch: got %s want %s", sig.R, wantR)
	require.Equal(t, 0, sig.S.Cmp(wantS), "s mismatch: got %s want %s", sig.S, wantS)
}
