package crypto

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
)

type Client struct {
	privateKey *btcec.PrivateKey
}

// New creates a signing client from a hex encoded private key.
// An empty key creates a client that can only verify.
func New(privateKeyStr string) (*Client, error) {
	if privateKeyStr == "" {
		return &Client{}, nil
	}
	privateKeyBytes, err := hex.DecodeString(privateKeyStr)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	if len(privateKeyBytes) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(errs.InvalidArgument, "private key must be %d bytes", btcec.PrivKeyBytesLen)
	}
	privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
	return &Client{
		privateKey: privateKey,
	}, nil
}

// NewFromKey creates a signing client from a private key.
func NewFromKey(privateKey *btcec.PrivateKey) *Client {
	return &Client{privateKey: privateKey}
}

// PublicKey returns the hex encoded compressed public key of the signer.
func (c *Client) PublicKey() string {
	if c.privateKey == nil {
		return ""
	}
	return hex.EncodeToString(c.privateKey.PubKey().SerializeCompressed())
}

// Sign signs the double sha256 of message and returns the hex encoded DER signature.
func (c *Client) Sign(message string) (string, error) {
	if c.privateKey == nil {
		return "", errors.Wrap(errs.InvalidArgument, "client has no private key")
	}
	messageHash := chainhash.DoubleHashB([]byte(message))
	signature := ecdsa.Sign(c.privateKey, messageHash)
	return hex.EncodeToString(signature.Serialize()), nil
}

func (c *Client) Verify(message, sigStr, pubKeyStr string) (bool, error) {
	pubBytes, err := hex.DecodeString(pubKeyStr)
	if err != nil {
		return false, errors.Wrap(err, "pubkey decode")
	}
	pubKey, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return false, errors.Wrap(err, "pubkey parse")
	}
	return Verify(message, sigStr, pubKey)
}

// Verify checks a hex encoded DER signature of message against pubKey.
func Verify(message, sigStr string, pubKey *btcec.PublicKey) (bool, error) {
	sigBytes, err := hex.DecodeString(sigStr)
	if err != nil {
		return false, errors.Wrap(err, "signature decode")
	}
	signature, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false, errors.Wrap(err, "signature parse")
	}
	messageHash := chainhash.DoubleHashB([]byte(message))
	return signature.Verify(messageHash, pubKey), nil
}
