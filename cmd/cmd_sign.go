package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/internal/config"
	"github.com/gaze-network/ticket-ledger/pkg/crypto"
	"github.com/spf13/cobra"
)

type signCmdOptions struct {
	KeyFile  string
	Contract string
	Method   string
	Nonce    uint64
}

func NewSignCommand() *cobra.Command {
	opts := &signCmdOptions{}

	cmd := &cobra.Command{
		Use:   "sign [ARGS...]",
		Short: "Sign an invocation and print the capability proof",
		Long: `Sign an invocation and print the capability proof as JSON.
ARGS are the invocation arguments in the order of the method parameters.`,
		Example: `ticket-ledger sign --key-file /data/keys/priv.key --contract ticket_payment --method confirm_payment --nonce 1 PAY-0123456789abcdef 0xabc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return signHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.KeyFile, "key-file", "/data/keys/priv.key", "Path to the hex encoded private key file")
	flags.StringVar(&opts.Contract, "contract", "", "Contract name or address, E.g. `ticket_payment`")
	flags.StringVar(&opts.Method, "method", "", "Invoked method, E.g. `confirm_payment`")
	flags.Uint64Var(&opts.Nonce, "nonce", 0, "Nonce of the signer, must be greater than the last used nonce")

	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("method")
	_ = cmd.MarkFlagRequired("nonce")

	return cmd
}

func signHandler(opts *signCmdOptions, cmd *cobra.Command, args []string) error {
	conf := config.Load()

	privateKey, err := os.ReadFile(opts.KeyFile)
	if err != nil {
		return errors.Wrap(err, "can't read private key file")
	}
	signer, err := crypto.New(strings.TrimSpace(string(privateKey)))
	if err != nil {
		return errors.Wrap(err, "invalid private key")
	}

	contract, err := common.ParseAddress(opts.Contract)
	if err != nil || !contract.IsContract() {
		contract = common.NewContractAddress(conf.Network, opts.Contract)
	}

	proof, err := host.Sign(signer, conf.Network, host.Invocation{
		Contract: contract,
		Method:   opts.Method,
		Args:     args,
	}, opts.Nonce)
	if err != nil {
		return errors.WithStack(err)
	}

	out, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can't marshal proof")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
