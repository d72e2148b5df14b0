package decimals

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	testcases := []struct {
		decimals uint16
		value    any
		expected string
	}{
		{0, uint64(1), "1"},
		{1, uint64(1), "0.1"},
		{7, uint128.From64(100000000), "10"},
		{7, "95000000", "9.5"},
		{18, big.NewInt(1), "0.000000000000000001"},
		{2, int64(12345), "123.45"},
		{2, uint32(5), "0.05"},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.expected, ToDecimal(tc.value, tc.decimals).String())
	}
}

func TestToUint128(t *testing.T) {
	amount, err := ToUint128(MustFromString("9.5"), 7)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(95000000), amount)

	_, err = ToUint128(MustFromString("0.00000001"), 7)
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = ToUint128(MustFromString("-1"), 0)
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	_, err = ToUint128(MustFromString("340282366920938463463374607431768211456"), 0)
	assert.True(t, errors.Is(err, errs.OverflowUint128))
}
