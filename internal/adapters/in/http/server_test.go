package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestServer_GetHealth(t *testing.T) {
	server := &Server{}
	ctx, rec := newTestContext(http.MethodGet, "/health", "")

	err := server.GetHealth(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_RunReconciliation_InvalidBody(t *testing.T) {
	server := &Server{}
	ctx, rec := newTestContext(http.MethodPost, "/api/v1/reconciliation/run", "{not json")

	err := server.RunReconciliation(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "Invalid request body", apiErr.Message)
}

func TestServer_RunReconciliation_EmptyTrackingNumberRejected(t *testing.T) {
	server := &Server{}
	ctx, rec := newTestContext(http.MethodPost, "/api/v1/reconciliation/run",
		`{"trackingNumbers": ["794812345678", ""]}`)

	err := server.RunReconciliation(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Message, "Invalid reconciliation request")
}

func TestServer_GetShipmentHistory_EmptyTrackingNumber(t *testing.T) {
	server := &Server{}
	ctx, rec := newTestContext(http.MethodGet, "/api/v1/shipments//history", "")
	ctx.SetParamNames("trackingNumber")
	ctx.SetParamValues("")

	err := server.GetShipmentHistory(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
