package constants

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntLiteral(t *testing.T) {
	v, err := DecodeIntLiteral("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)

	v, err = DecodeIntLiteral("0x2A")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestDecodeIntLiteralOverflow(t *testing.T) {
	// math.MinInt64's magnitude is the one value a leading '-' can still fold.
	v, err := DecodeIntLiteral("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)

	_, err = DecodeIntLiteral("9223372036854775808")
	assert.Error(t, err, "unsigned overflow of a positive literal must not silently wrap")

	_, err = DecodeIntLiteral("-9223372036854775809")
	assert.Error(t, err, "magnitude one past MinInt64 must not silently wrap")
}

func TestDecodeUintLiteral(t *testing.T) {
	v, err := DecodeUintLiteral("42u")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = DecodeUintLiteral("42")
	assert.Error(t, err)
}

func TestDecodeStringLiteralEscapes(t *testing.T) {
	v, err := DecodeStringLiteral(`"a\nb\tc"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc", v)

	v, err = DecodeStringLiteral(`"\x41\101B\U00000043"`)
	require.NoError(t, err)
	assert.Equal(t, "AABC", v)
}

func TestDecodeStringLiteralRawDisablesEscapes(t *testing.T) {
	v, err := DecodeStringLiteral(`r"a\nb"`)
	require.NoError(t, err)
	assert.Equal(t, `a\nb`, v)
}

func TestDecodeStringLiteralTripleQuoted(t *testing.T) {
	v, err := DecodeStringLiteral(`"""a"b"""`)
	require.NoError(t, err)
	assert.Equal(t, `a"b`, v)
}

func TestDecodeBytesLiteral(t *testing.T) {
	v, err := DecodeBytesLiteral(`b"\x00\x01"`)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1}, v)
}

func TestDecodeBytesLiteralRejectsUnicodeEscape(t *testing.T) {
	_, err := DecodeBytesLiteral(`b"\u0041"`)
	assert.Error(t, err)
}

func TestDecodeStringLiteralRejectsSurrogate(t *testing.T) {
	_, err := DecodeStringLiteral(`"\uD800"`)
	assert.Error(t, err)
}

func TestNormalizeNewlines(t *testing.T) {
	v, err := DecodeStringLiteral("\"a\r\nb\rc\"")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", v)
}

func TestPrefixComposition(t *testing.T) {
	v, err := DecodeBytesLiteral(`rb"\n"`)
	require.NoError(t, err)
	assert.Equal(t, []byte(`\n`), v)

	v2, err := DecodeBytesLiteral(`Br"\n"`)
	require.NoError(t, err)
	assert.Equal(t, []byte(`\n`), v2)
}
