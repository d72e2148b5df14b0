package ticketpayment

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

const feeDenominator = 10_000

// MaxAmount is the largest amount a payment can carry, 2^127-1.
var MaxAmount = uint128.Max.Rsh(1)

// parseAmount converts amount to uint128. It fails with ErrInvalidAmount unless
// 0 < amount <= MaxAmount.
func parseAmount(amount *big.Int) (uint128.Uint128, error) {
	if amount == nil || amount.Sign() <= 0 {
		return uint128.Zero, errors.Wrap(ErrInvalidAmount, "amount must be positive")
	}
	u, err := uint128.FromBig(amount)
	if err != nil || u.Cmp(MaxAmount) > 0 {
		return uint128.Zero, errors.Wrapf(ErrInvalidAmount, "amount %s is too large", amount)
	}
	return u, nil
}

// splitFee returns floor(amount * feePercent / 10000) and the remainder of amount.
func splitFee(amount uint128.Uint128, feePercent uint32) (platformFee, organizerAmount uint128.Uint128, err error) {
	product, overflow := amount.MulOverflow(uint128.From64(uint64(feePercent)))
	if overflow || product.Cmp(MaxAmount) > 0 {
		return uint128.Zero, uint128.Zero, errors.Wrapf(ErrOverflow, "%s * %d", amount, feePercent)
	}
	platformFee = product.Div64(feeDenominator)
	if platformFee.Cmp(amount) > 0 {
		return uint128.Zero, uint128.Zero, errors.Wrapf(ErrOverflow, "fee %s exceeds amount %s", platformFee, amount)
	}
	return platformFee, amount.Sub(platformFee), nil
}
