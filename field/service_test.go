package field

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/transport"
)

type staticTokens struct{}

func (staticTokens) Token(context.Context, string, string) (string, error) {
	return "test-token", nil
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := transport.NewClient(transport.WithBaseURL(server.URL))
	session := transport.NewSession(client, staticTokens{}, "app", "secret", "appTok")
	return NewService(session, zerolog.Nop())
}

func TestCreateField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tbl1/fields", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("client_token"))

		var body bitable.FieldSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Status", body.FieldName)
		require.NotNil(t, body.Property)
		assert.Len(t, body.Property.Options, 2)

		_, _ = w.Write([]byte(`{"code":0,"data":{"field":{"field_id":"fld1","field_name":"Status","type":3}}}`))
	})

	info, err := svc.Create(context.Background(), "tbl1", bitable.FieldSpec{
		FieldName: "Status",
		Type:      3,
		Property: &bitable.FieldProperty{
			Options: []bitable.FieldOption{{Name: "Open"}, {Name: "Done"}},
		},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "fld1", info.FieldID)
}

func TestCreateFieldRequiresName(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := svc.Create(context.Background(), "tbl1", bitable.FieldSpec{}, "")
	assert.True(t, bitable.IsCode(err, bitable.CodeParamRequired))
}

func TestUpdateField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tbl1/fields/fld1", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"field":{"field_id":"fld1","field_name":"State","type":3}}}`))
	})

	info, err := svc.Update(context.Background(), "tbl1", "fld1", bitable.FieldSpec{FieldName: "State", Type: 3})
	require.NoError(t, err)
	assert.Equal(t, "State", info.FieldName)
}

func TestDeleteField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"code":0,"data":{"field_id":"fld1","deleted":true}}`))
	})

	deleted, err := svc.Delete(context.Background(), "tbl1", "fld1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestListFieldsPagination(t *testing.T) {
	responses := map[string]string{
		"":   `{"code":0,"data":{"has_more":true,"page_token":"p2","total":3,"items":[{"field_id":"fld1","field_name":"A","type":1},{"field_id":"fld2","field_name":"B","type":2}]}}`,
		"p2": `{"code":0,"data":{"has_more":false,"total":3,"items":[{"field_id":"fld3","field_name":"C","type":1,"is_primary":true}]}}`,
	}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[r.URL.Query().Get("page_token")]))
	})

	all, err := svc.ListAll(context.Background(), "tbl1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[2].IsPrimary)
}
