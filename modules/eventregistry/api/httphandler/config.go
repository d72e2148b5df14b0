package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gofiber/fiber/v2"
)

type initializeRequest struct {
	AdminAddress              string `json:"adminAddress"`
	PlatformWalletAddress     string `json:"platformWalletAddress"`
	DefaultPlatformFeePercent uint32 `json:"defaultPlatformFeePercent"`
}

type configResult struct {
	AdminAddress              common.Address `json:"adminAddress"`
	PlatformWalletAddress     common.Address `json:"platformWalletAddress"`
	DefaultPlatformFeePercent uint32         `json:"defaultPlatformFeePercent"`
}

type getConfigResponse = common.HttpResponse[configResult]

func (h *HttpHandler) Initialize(ctx *fiber.Ctx) (err error) {
	var req initializeRequest
	if err := ctx.BodyParser(&req); err != nil {
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

	if err := h.registry.Initialize(ctx.UserContext(), admin, wallet, req.DefaultPlatformFeePercent); err != nil {
		return toHTTPError(err, "error during Initialize")
	}
	return h.GetConfig(ctx)
}

func (h *HttpHandler) GetConfig(ctx *fiber.Ctx) (err error) {
	config, err := h.registry.GetConfig(ctx.UserContext())
	if err != nil {
		return toHTTPError(err, "error during GetConfig")
	}
	return errors.WithStack(ctx.JSON(getConfigResponse{
		Result: &configResult{
			AdminAddress:              config.AdminAddress,
			PlatformWalletAddress:     config.PlatformWalletAddress,
			DefaultPlatformFeePercent: config.DefaultPlatformFeePercent,
		},
	}))
}

type setPlatformFeeRequest struct {
	authRequest
	FeePercent *uint32 `json:"feePercent"`
}

func (r setPlatformFeeRequest) Validate() error {
	var errList []error
	if r.FeePercent == nil {
		errList = append(errList, errors.New("'feePercent' is required"))
	} else if *r.FeePercent > eventregistry.MaxFeePercent {
		errList = append(errList, errors.Errorf("'feePercent' cannot exceed %d", eventregistry.MaxFeePercent))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) SetPlatformFee(ctx *fiber.Ctx) (err error) {
	var req setPlatformFeeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	if err := h.registry.SetPlatformFee(ctx.UserContext(), req.Auth, *req.FeePercent); err != nil {
		return toHTTPError(err, "error during SetPlatformFee")
	}
	return h.GetConfig(ctx)
}
