package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	locale    string
	proposals []*PairingProposal
	err       error
}

func (f *fakeRunner) Run(ctx context.Context, locale string) ([]*PairingProposal, error) {
	f.locale = locale
	return f.proposals, f.err
}

func testToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": 1,
		"expires":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	require.NoError(t, err)
	return signed
}

func triggerRequest(t *testing.T, method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	return req
}

func TestMatchTriggerRequiresAuth(t *testing.T) {
	handler := matchTriggerHandler(&fakeRunner{})

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/match/trigger", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/match/trigger", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMatchTriggerPost(t *testing.T) {
	engine := &fakeRunner{proposals: []*PairingProposal{
		{ID: "p1", IDA: "a", IDB: "b", AvgScore: 0.9, Mode: ModeOnline},
	}}
	handler := matchTriggerHandler(engine)

	rr := httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodPost, "/match/trigger", []byte(`{"timezone":"Europe/Berlin"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Europe/Berlin", engine.locale)

	var resp struct {
		Timezone string            `json:"timezone"`
		Count    int               `json:"count"`
		Pairings []PairingProposal `json:"pairings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Europe/Berlin", resp.Timezone)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Pairings, 1)
	assert.Equal(t, "a", resp.Pairings[0].IDA)
}

func TestMatchTriggerPostBadBody(t *testing.T) {
	handler := matchTriggerHandler(&fakeRunner{})

	rr := httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodPost, "/match/trigger", []byte(`{bad`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_json")

	rr = httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodPost, "/match/trigger", []byte(`{"timezone":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing_timezone")
}

func TestMatchTriggerGetDefaultsUTC(t *testing.T) {
	engine := &fakeRunner{}
	handler := matchTriggerHandler(engine)

	rr := httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodGet, "/match/trigger", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "UTC", engine.locale)

	rr = httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodGet, "/match/trigger?timezone=Asia/Tokyo", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Asia/Tokyo", engine.locale)
}

func TestMatchTriggerMethodNotAllowed(t *testing.T) {
	handler := matchTriggerHandler(&fakeRunner{})

	rr := httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodDelete, "/match/trigger", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMatchTriggerEngineError(t *testing.T) {
	handler := matchTriggerHandler(&fakeRunner{err: errors.New("boom")})

	rr := httptest.NewRecorder()
	handler(rr, triggerRequest(t, http.MethodGet, "/match/trigger", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "matching_error")
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	healthHandler()(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
