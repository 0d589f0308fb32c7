package httputil_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundregistry/pkg/domain-errors"
	"fundregistry/pkg/platform/httputil"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.WriteJSON(rec, http.StatusOK, map[string]int{"total_funds": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total_funds": 3}`, rec.Body.String())
}

func TestWriteErrorExposesClientFaults(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.WriteError(rec, dErrors.New(dErrors.CodeValidation, "fund name is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body["error"])
	assert.Equal(t, "fund name is required", body["error_description"])
}

func TestWriteErrorHidesServerDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.WriteError(rec, dErrors.Wrap(errors.New("dial tcp: connection refused"),
		dErrors.CodeUnavailable, "persist fund"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["error"])
	assert.NotContains(t, body, "error_description")
}

func TestWriteErrorUncodedIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.WriteError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecode(t *testing.T) {
	type payload struct {
		FundName string `json:"fund_name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fund_name": "KKR Americas Fund XII"}`))
	got, err := httputil.Decode[payload](req)
	require.NoError(t, err)
	assert.Equal(t, "KKR Americas Fund XII", got.FundName)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fund_name": `))
	_, err = httputil.Decode[payload](req)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown": 1}`))
	_, err = httputil.Decode[payload](req)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
