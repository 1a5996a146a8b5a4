package asn1_test

import (
	"testing"
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/stretchr/testify/require"
)

func TestSequenceRoundTrip(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	tr.AddBool(seq, true)
	tr.AddUint32(seq, 65537)
	tr.AddOctetString(seq, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	tr.AddUTF8String(seq, "hello gost")

	der, err := tr.EncodeDER()
	require.NoError(t, err)

	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	children := parsed.Children(parsed.Root())
	require.Len(t, children, 4)

	bv, err := parsed.Bool(children[0])
	require.NoError(t, err)
	require.True(t, bv)

	u, err := parsed.Uint32(children[1])
	require.NoError(t, err)
	require.Equal(t, uint32(65537), u)

	oct, err := parsed.OctetString(children[2])
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, oct)

	s, err := parsed.UTF8String(children[3])
	require.NoError(t, err)
	require.Equal(t, "hello gost", s)
}

func TestOIDRoundTrip(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	_, err := tr.AddOID(seq, "1.2.643.7.1.1.2.2")
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)

	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	children := parsed.Children(parsed.Root())
	oid, err := parsed.OID(children[0])
	require.NoError(t, err)
	require.Equal(t, "1.2.643.7.1.1.2.2", oid)
}

func TestLongFormLength(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	big := make([]byte, 300)
	for i := range big {
		big[i] = byte(i)
	}
	tr.AddOctetString(seq, big)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	require.Equal(t, byte(0x82), der[1]) // long form, 2 length octets

	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)
	oct, err := parsed.OctetString(parsed.Children(parsed.Root())[0])
	require.NoError(t, err)
	require.Equal(t, big, oct)
}

func TestHighTagNumberFormRejected(t *testing.T) {
	_, err := asn1.DecodeTag(0x1F)
	require.Error(t, err)
}

func TestTruncatedLengthRejected(t *testing.T) {
	_, err := asn1.DecodeDERExact([]byte{0x04, 0x05, 0x01, 0x02}, asn1.DecodeOptions{})
	require.Error(t, err)
}

func TestPEMRoundTrip(t *testing.T) {
	der := []byte{0x30, 0x03, 0x02, 0x01, 0x05}
	pem := asn1.EncodePEM(asn1.LabelCertificate, der)

	label, decoded, err := asn1.DecodePEM(pem)
	require.NoError(t, err)
	require.Equal(t, asn1.LabelCertificate, label)
	require.Equal(t, der, decoded)
}

func TestReadFallsBackToPEM(t *testing.T) {
	der := []byte{0x30, 0x03, 0x02, 0x01, 0x07}
	pem := asn1.EncodePEM(asn1.LabelPrivateKey, der)

	tree, label, err := asn1.Read(pem, asn1.DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, asn1.LabelPrivateKey, label)
	require.NotEqual(t, asn1.NoHandle, tree.Root())
}

func TestUTCTimeRoundTrip(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	want := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	tr.AddUTCTime(seq, want)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	got, err := parsed.UTCTime(parsed.Children(parsed.Root())[0])
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

// TestUTCTimeRoundTripYearAbovePivot pins a year outside Go's "06" layout
// verb's implicit 1969/2068 pivot window (YY=95 would decode to 1995 under
// that pivot) to confirm the unconditional 2000+YY rule, not the pivot.
func TestUTCTimeRoundTripYearAbovePivot(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	want := time.Date(2095, 3, 14, 9, 26, 53, 0, time.UTC)
	tr.AddUTCTime(seq, want)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	got, err := parsed.UTCTime(parsed.Children(parsed.Root())[0])
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestBitStringRejectsTooManyUnusedBits(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	_, err := tr.AddBitString(seq, asn1.BitString{Unused: 8, Bytes: []byte{0x00}})
	require.Error(t, err)
}

func TestExcludeDetachesWithoutFreeingArena(t *testing.T) {
	tr := asn1.NewTree()
	seq := tr.AddSequence(asn1.NoHandle)
	a := tr.AddUint32(seq, 1)
	tr.AddUint32(seq, 2)

	tr.Exclude(a)
	require.Len(t, tr.Children(seq), 1)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, parsed.Children(parsed.Root()), 1)
}
