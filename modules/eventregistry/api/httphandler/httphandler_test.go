package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host/hosttest"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *eventregistry.Registry) {
	env := hosttest.NewEnv(t)
	registry := eventregistry.New(env.Env, eventregistry.DefaultName)
	app := fiber.New(fiber.Config{
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	require.NoError(t, New(registry).Mount(app))
	return app, registry
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestRegisterAndGetEvent(t *testing.T) {
	app, registry := newTestApp(t)
	admin := hosttest.NewSigner(t)
	organizer := hosttest.NewSigner(t)
	payee := hosttest.NewSigner(t)

	require.NoError(t, registry.Initialize(context.Background(), admin.Address(), admin.Address(), 300))

	status, _ := doRequest(t, app, http.MethodPost, "/registry/v1/events", map[string]any{
		"auth":             organizer.Auth(),
		"eventId":          "concert",
		"organizerAddress": organizer.Address(),
		"paymentAddress":   payee.Address(),
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, app, http.MethodGet, "/registry/v1/events/concert", nil)
	require.Equal(t, http.StatusOK, status)
	var resp getEventResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "concert", resp.Result.EventId)
	assert.Equal(t, organizer.Address(), resp.Result.OrganizerAddress)
	assert.Equal(t, uint32(300), resp.Result.PlatformFeePercent)
	assert.True(t, resp.Result.IsActive)

	status, body = doRequest(t, app, http.MethodGet, "/registry/v1/organizers/"+organizer.Address().String()+"/events", nil)
	require.Equal(t, http.StatusOK, status)
	var eventsResp getOrganizerEventsResponse
	require.NoError(t, json.Unmarshal(body, &eventsResp))
	assert.Equal(t, []string{"concert"}, eventsResp.Result.List)
}

func TestErrorStatuses(t *testing.T) {
	app, registry := newTestApp(t)
	admin := hosttest.NewSigner(t)
	organizer := hosttest.NewSigner(t)

	status, _ := doRequest(t, app, http.MethodGet, "/registry/v1/config", nil)
	assert.Equal(t, http.StatusNotFound, status)

	require.NoError(t, registry.Initialize(context.Background(), admin.Address(), admin.Address(), 300))

	status, body := doRequest(t, app, http.MethodPost, "/registry/v1/initialize", map[string]any{
		"adminAddress":          admin.Address(),
		"platformWalletAddress": admin.Address(),
	})
	assert.Equal(t, http.StatusConflict, status)
	var resp common.HttpResponse[struct{}]
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, eventregistry.ErrAlreadyInitialized.Error(), *resp.Error)

	status, _ = doRequest(t, app, http.MethodPut, "/registry/v1/config/fee", map[string]any{
		"auth":       organizer.Auth(),
		"feePercent": 10,
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodPut, "/registry/v1/config/fee", map[string]any{
		"auth":       admin.Auth(),
		"feePercent": 10_001,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodGet, "/registry/v1/events/missing", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"error":null,"result":null}`, string(body))

	status, _ = doRequest(t, app, http.MethodGet, "/registry/v1/events/missing/payment-info", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPost, "/registry/v1/events", map[string]any{
		"auth":             organizer.Auth(),
		"eventId":          "concert",
		"organizerAddress": "not-an-address",
		"paymentAddress":   organizer.Address(),
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
