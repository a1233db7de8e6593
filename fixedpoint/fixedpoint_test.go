// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"encoding/json"
	"math"
	"math/bits"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxValue = FromWords(math.MaxUint64, math.MaxUint64, math.MaxUint64)

func TestFromUint64(t *testing.T) {
	q := FromUint64(1444500000)
	assert.Equal(t, [3]uint64{0, 0, 1444500000}, q.Words())
	assert.Equal(t, uint64(1444500000), q.Uint64())
	assert.True(t, q.Fraction().IsZero())
	assert.Equal(t, "1444500000", q.String())
}

func TestAddSub(t *testing.T) {
	a := FromUint64(10)
	b := FromWords(0, 1<<63, 2) // 2.5

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.5", sum.String())

	diff, err := sum.Sub(a)
	require.NoError(t, err)
	assert.True(t, diff.Eq(b))

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = maxValue.Add(FromWords(1, 0, 0))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMul(t *testing.T) {
	half := FromWords(0, 1<<63, 0)

	r, err := FromUint64(7).Mul(half)
	require.NoError(t, err)
	assert.Equal(t, "3.5", r.String())

	r, err = FromUint64(1 << 32).Mul(FromUint64(1 << 31))
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), r.Uint64())

	_, err = FromUint64(1 << 32).Mul(FromUint64(1 << 32))
	assert.ErrorIs(t, err, ErrOverflow)

	r, err = maxValue.Mul(Zero())
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	r, err = FromUint64(99).MulUint64(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(297), r.Uint64())

	_, err = FromUint64(math.MaxUint64).MulUint64(2)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDiv(t *testing.T) {
	r, err := FromUint64(7).Div(FromUint64(2))
	require.NoError(t, err)
	assert.Equal(t, "3.5", r.String())

	_, err = FromUint64(7).Div(Zero())
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = FromUint64(7).DivUint64(0)
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = FromUint64(1 << 40).Div(FromWords(1, 0, 0))
	assert.ErrorIs(t, err, ErrOverflow)

	third, err := FromUint64(1).DivUint64(3)
	require.NoError(t, err)
	assert.Equal(t, "0.333333333333333333", third.String())
}

func TestRewardRateFixture(t *testing.T) {
	const duration = 4234

	rate, err := FromUint64(1444500000 * duration).DivUint64(duration)
	require.NoError(t, err)
	assert.Equal(t, [3]uint64{0, 0, 1444500000}, rate.Words())

	viaDiv, err := FromUint64(1444500000 * duration).Div(FromUint64(duration))
	require.NoError(t, err)
	assert.True(t, viaDiv.Eq(rate))

	// non divisible amounts never distribute more than they hold
	rate, err = FromUint64(99_770_000_000).DivUint64(duration)
	require.NoError(t, err)
	total, err := rate.MulUint64(duration)
	require.NoError(t, err)
	assert.False(t, total.Gt(FromUint64(99_770_000_000)))
	assert.Equal(t, uint64(99_769_999_999), total.Uint64())
}

func TestSplit(t *testing.T) {
	q := FromWords(5, 6, 7)
	integer, frac := q.Split()
	assert.Equal(t, uint64(7), integer)
	assert.Equal(t, [3]uint64{5, 6, 0}, frac.Words())
}

func TestCmp(t *testing.T) {
	a, b := FromUint64(1), FromWords(0, 1, 1)
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(FromUint64(1)))
	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
}

func TestEncoding(t *testing.T) {
	q := FromWords(1, 2, 3)

	b := q.Bytes()
	assert.Len(t, b, ByteLength)
	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, byte(2), b[8])
	assert.Equal(t, byte(3), b[16])

	var decoded Q64x128
	require.NoError(t, decoded.SetBytes(b))
	assert.True(t, decoded.Eq(q))
	assert.Error(t, decoded.SetBytes(b[1:]))

	enc, err := rlp.EncodeToBytes(&struct{ V Q64x128 }{q})
	require.NoError(t, err)
	var out struct{ V Q64x128 }
	require.NoError(t, rlp.DecodeBytes(enc, &out))
	assert.True(t, out.V.Eq(q))

	data, err := json.Marshal(FromWords(0, 1<<63, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":"1190988284223284622121811126011188740096","value":"3.5"}`, string(data))
	var fromJSON Q64x128
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, [3]uint64{0, 1 << 63, 3}, fromJSON.Words())
}

func TestParseRawRejectsWideValues(t *testing.T) {
	_, err := ParseRaw("6277101735386680763835789423207666416102355444464034512896") // 2^192
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestIntegerArithmeticFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 2000; i++ {
		var a, b uint64
		f.Fuzz(&a)
		f.Fuzz(&b)

		sum, err := FromUint64(a).Add(FromUint64(b))
		if s, carry := bits.Add64(a, b, 0); carry != 0 {
			assert.ErrorIs(t, err, ErrOverflow)
		} else {
			require.NoError(t, err)
			assert.Equal(t, s, sum.Uint64())
		}

		prod, err := FromUint64(a).Mul(FromUint64(b))
		if hi, lo := bits.Mul64(a, b); hi != 0 {
			assert.ErrorIs(t, err, ErrOverflow)
		} else {
			require.NoError(t, err)
			assert.Equal(t, lo, prod.Uint64())
			assert.True(t, prod.Fraction().IsZero())
		}

		if b == 0 {
			continue
		}
		q, err := FromUint64(a).Div(FromUint64(b))
		require.NoError(t, err)
		assert.Equal(t, a/b, q.Uint64())

		// a / b × b never exceeds a
		back, err := q.MulUint64(b)
		require.NoError(t, err)
		assert.False(t, back.Gt(FromUint64(a)))
	}
}
