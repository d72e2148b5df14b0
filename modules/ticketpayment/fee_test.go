package ticketpayment

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFee(t *testing.T) {
	testCases := []struct {
		amount      uint128.Uint128
		feePercent  uint32
		platformFee uint128.Uint128
	}{
		{uint128.From64(100_000_000), 500, uint128.From64(5_000_000)},
		{uint128.From64(1), 500, uint128.Zero},
		{uint128.From64(199), 50, uint128.Zero},
		{uint128.From64(200), 50, uint128.From64(1)},
		{uint128.From64(12345), 0, uint128.Zero},
		{uint128.From64(12345), 10_000, uint128.From64(12345)},
		{uint128.From64(9_999), 3_333, uint128.From64(3_332)},
		{MaxAmount.Div64(10_000), 10_000, MaxAmount.Div64(10_000)},
	}
	for _, tc := range testCases {
		platformFee, organizerAmount, err := splitFee(tc.amount, tc.feePercent)
		require.NoError(t, err)
		assert.Equal(t, tc.platformFee, platformFee, "%s * %d", tc.amount, tc.feePercent)
		assert.Equal(t, tc.amount, platformFee.Add(organizerAmount))
	}
}

func TestSplitFeeOverflow(t *testing.T) {
	// product doesn't fit 128 bits
	_, _, err := splitFee(MaxAmount, 10_000)
	assert.True(t, errors.Is(err, ErrOverflow))

	// product fits 128 bits but not the signed range
	_, _, err = splitFee(uint128.From64(1).Lsh(126), 2)
	assert.True(t, errors.Is(err, ErrOverflow))

	_, _, err = splitFee(uint128.From64(1).Lsh(126), 1)
	assert.NoError(t, err)
}

func TestParseAmount(t *testing.T) {
	maxAmount := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

	amount, err := parseAmount(maxAmount)
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, amount)

	for _, invalid := range []*big.Int{
		nil,
		big.NewInt(0),
		big.NewInt(-1),
		new(big.Int).Add(maxAmount, big.NewInt(1)),
		new(big.Int).Lsh(big.NewInt(1), 200),
	} {
		_, err := parseAmount(invalid)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "amount %v", invalid)
	}
}

func TestNewPaymentID(t *testing.T) {
	id := newPaymentID("evt1", "02aa", 1)
	assert.Len(t, id, len(paymentIDPrefix)+16)
	assert.Equal(t, id, newPaymentID("evt1", "02aa", 1))
	assert.NotEqual(t, id, newPaymentID("evt1", "02aa", 2))
	assert.NotEqual(t, id, newPaymentID("evt2", "02aa", 1))
}
