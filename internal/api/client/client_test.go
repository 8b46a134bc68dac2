package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/history"
)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestHistory(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponderWithQuery(http.MethodGet, "http://127.0.0.1:8080/api/v1/history",
		map[string]string{"limit": "5", "kind": "conversion"},
		httpmock.NewStringResponder(http.StatusOK,
			`{"entries":[{"id":"a","kind":"conversion","input":{"value":1},"result":15}],"count":1}`))

	c, err := New("127.0.0.1:8080")
	require.NoError(t, err)

	resp, err := c.History(context.Background(), 5, history.KindConversion)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "a", resp.Entries[0].ID)
	assert.Equal(t, history.KindConversion, resp.Entries[0].Kind)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestHistoryErrorResponse(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, "http://localhost:9000/api/v1/history",
		httpmock.NewStringResponder(http.StatusNotFound,
			`{"error":"Calculation history is disabled","message":"Calculation history is disabled","code":404,"correlation_id":"abc"}`))

	c, err := New("http://localhost:9000")
	require.NoError(t, err)

	_, err = c.History(context.Background(), 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
	assert.Contains(t, err.Error(), "abc")
	assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
}

func TestClearHistory(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodDelete, "http://127.0.0.1:8080/api/v1/history",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	c, err := New("127.0.0.1:8080")
	require.NoError(t, err)
	require.NoError(t, c.ClearHistory(context.Background()))
}

func TestConnectionFailure(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterNoResponder(httpmock.ConnectionFailure)

	c, err := New("127.0.0.1:8080")
	require.NoError(t, err)

	err = c.ClearHistory(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
}
