package slogx

import (
	"fmt"
	"log/slog"
)

// Attribute keys shared by the ledger components so log lines can be joined on them.
const (
	ContractKey  = "contract"
	MethodKey    = "method"
	SignerKey    = "signer"
	EventIDKey   = "event_id"
	PaymentIDKey = "payment_id"
)

// Contract returns the attr identifying the contract an invocation targets.
func Contract(addr fmt.Stringer) slog.Attr {
	return Stringer(ContractKey, addr)
}

func Method(name string) slog.Attr {
	return slog.String(MethodKey, name)
}

func Signer(addr fmt.Stringer) slog.Attr {
	return Stringer(SignerKey, addr)
}

func EventID(id string) slog.Attr {
	return slog.String(EventIDKey, id)
}

func PaymentID(id string) slog.Attr {
	return slog.String(PaymentIDKey, id)
}
