package decimals

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal converts an integer amount in the smallest unit into a decimal with the given number of decimals.
// E.g. ToDecimal(uint128.From64(12345), 2) is 123.45
func ToDecimal(ivalue any, decimals uint16) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		if v != nil {
			value = v
		}
	case int64:
		value.SetInt64(v)
	case uint64:
		value.SetUint64(v)
	case uint32:
		value.SetUint64(uint64(v))
	case int:
		value.SetInt64(int64(v))
	case uint128.Uint128:
		value = v.Big()
	}
	return decimal.NewFromBigInt(value, -int32(decimals))
}

// ToUint128 converts a decimal amount into the smallest unit. The amount must be a non-negative
// integer after scaling and fit in 128 bits.
func ToUint128(amount decimal.Decimal, decimals uint16) (uint128.Uint128, error) {
	scaled := amount.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	if scaled.IsNegative() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount %s is negative", amount)
	}
	result, err := uint128.FromBig(scaled.BigInt())
	if err != nil {
		return uint128.Zero, errors.WithStack(errs.OverflowUint128)
	}
	return result, nil
}
