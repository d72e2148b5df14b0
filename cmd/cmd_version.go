package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X github.com/gaze-network/ticket-ledger/cmd.Version=..."
var Version = "v0.1.0"

var versions = map[string]string{
	"":                         Version,
	eventregistry.DefaultName: eventregistry.Version,
	ticketpayment.DefaultName: ticketpayment.Version,
}

type versionCmdOptions struct {
	Modules string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show ticket-ledger version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Modules, "module", "", `Show version of a specific module. E.g. "ticket_payment"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, cmd *cobra.Command, _ []string) error {
	version, ok := versions[opts.Modules]
	if !ok {
		return errors.Wrapf(errs.Unsupported, "invalid module name %q", opts.Modules)
	}
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
