package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bitable-toolkit/bitable"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL))
}

func TestCallDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"code":0,"msg":"success","data":{"record":{"record_id":"rec1","fields":{"Name":"alice"}}}}`))
	})

	data, err := Call[bitable.RecordData](context.Background(), client, http.MethodPost, "/x", "tok", nil, map[string]any{"fields": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, "rec1", data.Record.RecordID)
	assert.Equal(t, "alice", data.Record.Fields["Name"])
}

func TestCallQueryParameters(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"code":0,"data":{}}`))
	})

	q := url.Values{}
	q.Set("page_size", "20")
	q.Set("page_token", "tok123")
	_, err := Call[struct{}](context.Background(), client, http.MethodPost, "/x", "tok", q, nil)
	require.NoError(t, err)
	assert.Equal(t, "20", gotQuery.Get("page_size"))
	assert.Equal(t, "tok123", gotQuery.Get("page_token"))
}

func TestCallNonZeroCodeIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1254005,"msg":"TableIdNotFound","data":{}}`))
	})

	_, err := Call[struct{}](context.Background(), client, http.MethodGet, "/x", "tok", nil, nil)
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeAPIError))
	assert.Contains(t, err.Error(), "TableIdNotFound")
}

func TestCallEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := Call[struct{}](context.Background(), client, http.MethodGet, "/x", "tok", nil, nil)
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeResponseEmpty))
}

func TestCallMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"data":`))
	})

	_, err := Call[struct{}](context.Background(), client, http.MethodGet, "/x", "tok", nil, nil)
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeResponseParseError))
}

func TestCallHTTPErrorWithEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":99991663,"msg":"app ticket invalid"}`))
	})

	_, err := Call[struct{}](context.Background(), client, http.MethodGet, "/x", "tok", nil, nil)
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeAPIError))
	assert.Contains(t, err.Error(), "app ticket invalid")
}

func TestFetchToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bitable.PathAppAccessToken, r.URL.Path)
		var body bitable.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "app", body.AppID)
		assert.Equal(t, "secret", body.AppSecret)
		_, _ = w.Write([]byte(`{"code":0,"msg":"ok","tenant_access_token":"t-xyz","expire":7200}`))
	})

	token, expire, err := client.FetchToken(context.Background(), "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t-xyz", token)
	assert.Equal(t, 7200, expire)
}

func TestFetchTokenFallsBackToAppToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"app_access_token":"a-xyz","expire":3600}`))
	})

	token, expire, err := client.FetchToken(context.Background(), "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a-xyz", token)
	assert.Equal(t, 3600, expire)
}

func TestFetchTokenRemoteFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10003,"msg":"invalid app_secret"}`))
	})

	_, _, err := client.FetchToken(context.Background(), "app", "secret")
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeTokenAcquireFailed))
}

func TestPath(t *testing.T) {
	assert.Equal(t,
		"/bitable/v1/apps/appTok/tables/tbl1/records/rec9",
		Path(bitable.PathRecord, "appTok", "tbl1", "rec9"))
}
