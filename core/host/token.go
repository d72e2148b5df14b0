package host

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/uint128"
)

const hostNamespace = "host"

func tokenNamespace(token string) string {
	return "token:" + token
}

func balanceKey(addr common.Address) string {
	return "balance:" + addr.String()
}

func nonceKey(addr common.Address) string {
	return "nonce:" + addr.String()
}

func getBalance(s *Storage, addr common.Address) (uint128.Uint128, error) {
	value, ok, err := s.Get(balanceKey(addr))
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to get balance")
	}
	if !ok {
		return uint128.Zero, nil
	}
	balance, err := uint128.FromString(string(value))
	if err != nil {
		return uint128.Zero, errors.Wrapf(err, "corrupted balance of %s", addr)
	}
	return balance, nil
}

func setBalance(s *Storage, addr common.Address, balance uint128.Uint128) error {
	return errors.Wrap(s.Set(balanceKey(addr), []byte(balance.String())), "failed to set balance")
}

// transfer moves amount of token between two balances of the same storage view.
func transfer(s *Storage, from, to common.Address, amount uint128.Uint128) error {
	if amount.IsZero() || from == to {
		return nil
	}
	fromBalance, err := getBalance(s, from)
	if err != nil {
		return errors.Mark(err, ErrTransferFailed)
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "balance of %s is %s, need %s", from, fromBalance, amount)
	}
	toBalance, err := getBalance(s, to)
	if err != nil {
		return errors.Mark(err, ErrTransferFailed)
	}
	newToBalance, overflow := toBalance.AddOverflow(amount)
	if overflow {
		return errors.Wrapf(ErrTransferFailed, "balance of %s overflows", to)
	}
	if err := setBalance(s, from, fromBalance.Sub(amount)); err != nil {
		return errors.Mark(err, ErrTransferFailed)
	}
	if err := setBalance(s, to, newToBalance); err != nil {
		return errors.Mark(err, ErrTransferFailed)
	}
	return nil
}

func mint(s *Storage, to common.Address, amount uint128.Uint128) error {
	balance, err := getBalance(s, to)
	if err != nil {
		return errors.WithStack(err)
	}
	newBalance, overflow := balance.AddOverflow(amount)
	if overflow {
		return errors.Wrapf(ErrTransferFailed, "balance of %s overflows", to)
	}
	return setBalance(s, to, newBalance)
}
