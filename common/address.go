package common

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
)

// Address identifies an account or a contract.
//
// Account addresses are hex-encoded compressed secp256k1 public keys.
// Contract addresses are "C" followed by a hex-encoded 32 bytes hash.
type Address string

const (
	contractAddressPrefix = "C"
	contractAddressLength = len(contractAddressPrefix) + chainhash.HashSize*2
	accountAddressLength  = btcec.PubKeyBytesLenCompressed * 2
)

// NewContractAddress derives the address of the contract name on the given network.
func NewContractAddress(network Network, name string) Address {
	hash := chainhash.HashB([]byte(network.String() + ":" + name))
	return Address(contractAddressPrefix + hex.EncodeToString(hash))
}

// NewAccountAddress returns the account address of the public key.
func NewAccountAddress(pubKey *btcec.PublicKey) Address {
	return Address(hex.EncodeToString(pubKey.SerializeCompressed()))
}

// ParseAddress parses and validates an address string.
func ParseAddress(s string) (Address, error) {
	addr := Address(strings.TrimSpace(s))
	if !addr.IsContract() {
		addr = Address(strings.ToLower(string(addr)))
	}
	if err := addr.Validate(); err != nil {
		return "", errors.WithStack(err)
	}
	return addr, nil
}

func (a Address) String() string {
	return string(a)
}

func (a Address) IsZero() bool {
	return a == ""
}

func (a Address) IsContract() bool {
	return strings.HasPrefix(string(a), contractAddressPrefix)
}

// PublicKey returns the public key of an account address.
func (a Address) PublicKey() (*btcec.PublicKey, error) {
	if a.IsContract() {
		return nil, errors.Wrapf(errs.Unsupported, "contract address %q has no public key", a)
	}
	b, err := hex.DecodeString(string(a))
	if err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "address is not hex encoded")
	}
	pubKey, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "address is not a public key: %v", err)
	}
	return pubKey, nil
}

// Validate returns errs.InvalidArgument if the address is malformed.
func (a Address) Validate() error {
	switch {
	case a.IsZero():
		return errors.Wrap(errs.InvalidArgument, "address is empty")
	case a.IsContract():
		if len(a) != contractAddressLength {
			return errors.Wrapf(errs.InvalidArgument, "invalid contract address length %d", len(a))
		}
		if _, err := hex.DecodeString(string(a[len(contractAddressPrefix):])); err != nil || strings.ToLower(string(a[1:])) != string(a[1:]) {
			return errors.Wrap(errs.InvalidArgument, "contract address is not lower-case hex")
		}
		return nil
	default:
		if len(a) != accountAddressLength {
			return errors.Wrapf(errs.InvalidArgument, "invalid account address length %d", len(a))
		}
		if strings.ToLower(string(a)) != string(a) {
			return errors.Wrap(errs.InvalidArgument, "account address is not lower-case hex")
		}
		if _, err := a.PublicKey(); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
}
