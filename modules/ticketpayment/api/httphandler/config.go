package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	"github.com/gofiber/fiber/v2"
)

type initializeRequest struct {
	AdminAddress          string `json:"adminAddress"`
	Token                 string `json:"token"`
	PlatformFeePercent    uint32 `json:"platformFeePercent"`
	PlatformWalletAddress string `json:"platformWalletAddress"`
	EventRegistryAddress  string `json:"eventRegistryAddress"`
}

func (r initializeRequest) Validate() error {
	var errList []error
	if r.Token == "" {
		errList = append(errList, errors.New("'token' is required"))
	}
	if r.PlatformFeePercent > ticketpayment.MaxFeePercent {
		errList = append(errList, errors.Errorf("'platformFeePercent' cannot exceed %d", ticketpayment.MaxFeePercent))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type configResult struct {
	AdminAddress          common.Address `json:"adminAddress"`
	Token                 string         `json:"token"`
	TokenDecimals         uint16         `json:"tokenDecimals"`
	PlatformFeePercent    uint32         `json:"platformFeePercent"`
	PlatformWalletAddress common.Address `json:"platformWalletAddress"`
	EventRegistryAddress  common.Address `json:"eventRegistryAddress"`
}

type getConfigResponse = common.HttpResponse[configResult]

func (h *HttpHandler) Initialize(ctx *fiber.Ctx) (err error) {
	var req initializeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	admin, err := parseAddress(req.AdminAddress, "adminAddress")
	if err != nil {
		return errors.WithStack(err)
	}
	wallet, err := parseAddress(req.PlatformWalletAddress, "platformWalletAddress")
	if err != nil {
		return errors.WithStack(err)
	}
	registry, err := parseAddress(req.EventRegistryAddress, "eventRegistryAddress")
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.ledger.Initialize(ctx.UserContext(), ticketpayment.InitializeParams{
		AdminAddress:          admin,
		Token:                 req.Token,
		PlatformFeePercent:    req.PlatformFeePercent,
		PlatformWalletAddress: wallet,
		EventRegistryAddress:  registry,
	})
	if err != nil {
		return toHTTPError(err, "error during Initialize")
	}
	return h.GetConfig(ctx)
}

func (h *HttpHandler) GetConfig(ctx *fiber.Ctx) (err error) {
	config, err := h.ledger.GetConfig(ctx.UserContext())
	if err != nil {
		return toHTTPError(err, "error during GetConfig")
	}
	return errors.WithStack(ctx.JSON(getConfigResponse{
		Result: &configResult{
			AdminAddress:          config.AdminAddress,
			Token:                 config.Token,
			TokenDecimals:         h.tokenDecimals,
			PlatformFeePercent:    config.PlatformFeePercent,
			PlatformWalletAddress: config.PlatformWalletAddress,
			EventRegistryAddress:  config.EventRegistryAddress,
		},
	}))
}
