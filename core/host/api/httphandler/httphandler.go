package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/pkg/decimals"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const pingTimeout = 3 * time.Second

type HttpHandler struct {
	env           *host.Env
	tokenDecimals uint16
}

func New(env *host.Env, tokenDecimals uint16) *HttpHandler {
	return &HttpHandler{
		env:           env,
		tokenDecimals: tokenDecimals,
	}
}

func (h *HttpHandler) Mount(router fiber.Router) error {
	router.Get("/health", h.Health)
	router.Get("/health/ready", h.Ready)

	r := router.Group("/host/v1")
	r.Get("/tokens/:token/balances/:address", h.GetBalance)
	return nil
}

type healthResult struct {
	Status  string         `json:"status"`
	Network common.Network `json:"network"`
}

type healthResponse = common.HttpResponse[healthResult]

func (h *HttpHandler) Health(ctx *fiber.Ctx) error {
	return errors.WithStack(ctx.JSON(healthResponse{
		Result: &healthResult{Status: "ok", Network: h.env.Network()},
	}))
}

// Ready reports whether the store is reachable.
func (h *HttpHandler) Ready(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), pingTimeout)
	defer cancel()

	result := &healthResult{Status: "ready", Network: h.env.Network()}
	if err := h.env.Ping(pingCtx); err != nil {
		logger.WarnContext(ctx.UserContext(), "Store is not ready", slogx.Error(err))
		result.Status = "not_ready"
		ctx.Status(http.StatusServiceUnavailable)
	}
	return errors.WithStack(ctx.JSON(healthResponse{Result: result}))
}

type balanceResult struct {
	Token   string          `json:"token"`
	Address common.Address  `json:"address"`
	Value   string          `json:"value"` // base units
	Decimal decimal.Decimal `json:"decimal"`
}

type getBalanceResponse = common.HttpResponse[balanceResult]

func (h *HttpHandler) GetBalance(ctx *fiber.Ctx) error {
	token := ctx.Params("token")
	if token == "" {
		return errs.Validationf("'token' is required")
	}
	addr, err := common.ParseAddress(ctx.Params("address"))
	if err != nil {
		return errs.Validationf("'address' is not a valid address")
	}

	balance, err := h.env.Balance(ctx.UserContext(), token, addr)
	if err != nil {
		return errors.Wrap(err, "error during GetBalance")
	}
	return errors.WithStack(ctx.JSON(getBalanceResponse{
		Result: &balanceResult{
			Token:   token,
			Address: addr,
			Value:   balance.String(),
			Decimal: decimals.ToDecimal(balance, h.tokenDecimals),
		},
	}))
}
