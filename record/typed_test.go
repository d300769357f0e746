package record

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/query"
	"github.com/raywall/bitable-toolkit/schema"
	"github.com/raywall/bitable-toolkit/transport"
)

type employee struct {
	ID    string    `bitable:"id"`
	Name  string    `bitable:"name,field=Full Name,order=1"`
	Email string    `bitable:"email,order=2"`
	Hired time.Time `bitable:"hired,order=3"`
}

func (employee) BitableTable() schema.TableMeta {
	return schema.TableMeta{Name: "Employees", TableID: "tblEmp", ViewID: "vewMain"}
}

type unbound struct {
	Name string `bitable:"name"`
}

func newTypedService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := transport.NewClient(transport.WithBaseURL(server.URL))
	session := transport.NewSession(client, staticTokens{}, "app", "secret", "appTok")
	return NewService(session, zerolog.Nop())
}

func TestTypedCreate(t *testing.T) {
	hired := time.Date(2023, 4, 1, 9, 0, 0, 0, time.Local)
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tblEmp/records", r.URL.Path)

		var body bitable.FieldsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.Fields["Full Name"])
		assert.Equal(t, "a@x.dev", body.Fields["email"])
		assert.EqualValues(t, hired.UnixMilli(), body.Fields["hired"])
		assert.NotContains(t, body.Fields, "record_id")

		_, _ = w.Write([]byte(`{"code":0,"data":{"record":{"record_id":"rec1","fields":{"Full Name":"alice","email":"a@x.dev"}}}}`))
	})

	out, err := Create(context.Background(), svc, employee{Name: "alice", Email: "a@x.dev", Hired: hired})
	require.NoError(t, err)
	assert.Equal(t, "rec1", out.ID)
	assert.Equal(t, "alice", out.Name)
}

func TestTypedCreateWithoutTableBinding(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := Create(context.Background(), svc, unbound{Name: "x"})
	assert.True(t, bitable.IsCode(err, bitable.CodeTableMetaMissing))
}

func TestTypedSave(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tblEmp/records/rec7", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"record":{"record_id":"rec7","fields":{"Full Name":"bob"}}}}`))
	})

	out, err := Save(context.Background(), svc, employee{ID: "rec7", Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", out.Name)
}

func TestTypedSaveWithoutIdentity(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := Save(context.Background(), svc, employee{Name: "bob"})
	assert.True(t, bitable.IsCode(err, bitable.CodeRecordIDMissing))
}

func TestTypedRemove(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tblEmp/records/rec7", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"deleted":true,"record_id":"rec7"}}`))
	})

	deleted, err := Remove(context.Background(), svc, employee{ID: "rec7"})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTypedQueryFillsViewAndProjection(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		var body bitable.SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vewMain", body.ViewID)
		assert.Equal(t, []string{"Full Name", "email", "hired"}, body.FieldNames)

		_, _ = w.Write([]byte(`{"code":0,"data":{"has_more":false,"total":1,"items":[{"record_id":"rec1","fields":{"Full Name":"alice","email":"a@x.dev","hired":1680336000000}}]}}`))
	})

	page, err := Query[employee](context.Background(), svc, query.For[employee]().Eq("Name", "alice").Build())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "rec1", page.Items[0].ID)
	assert.Equal(t, "alice", page.Items[0].Name)
	assert.Equal(t, time.UnixMilli(1680336000000), page.Items[0].Hired)
	assert.False(t, page.HasMore)
	assert.Equal(t, 1, page.Total)
}

func TestTypedQueryKeepsExplicitView(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		var body bitable.SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vewOther", body.ViewID)
		_, _ = w.Write([]byte(`{"code":0,"data":{"has_more":false,"total":0,"items":[]}}`))
	})

	_, err := Query[employee](context.Background(), svc, query.For[employee]().ViewID("vewOther").Build())
	require.NoError(t, err)
}

func TestTypedQueryAllDrainsPages(t *testing.T) {
	responses := map[string]string{
		"":   `{"code":0,"data":{"has_more":true,"page_token":"p2","total":3,"items":[{"record_id":"rec1","fields":{"Full Name":"a"}},{"record_id":"rec2","fields":{"Full Name":"b"}}]}}`,
		"p2": `{"code":0,"data":{"has_more":false,"total":3,"items":[{"record_id":"rec3","fields":{"Full Name":"c"}}]}}`,
	}
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[r.URL.Query().Get("page_token")]))
	})

	all, err := QueryAll[employee](context.Background(), svc, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[2].Name)
}

func TestTypedCreateAll(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bitable/v1/apps/appTok/tables/tblEmp/records/batch_create", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"records":[{"record_id":"rec1","fields":{"Full Name":"a"}},{"record_id":"rec2","fields":{"Full Name":"b"}}]}}`))
	})

	out, err := CreateAll(context.Background(), svc, []employee{{Name: "a"}, {Name: "b"}}, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "rec2", out[1].ID)
}

func TestTypedRemoveAll(t *testing.T) {
	svc := newTypedService(t, func(w http.ResponseWriter, r *http.Request) {
		var body bitable.BatchDeleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"rec1", "rec2"}, body.Records)
		_, _ = w.Write([]byte(`{"code":0,"data":{"records":[{"deleted":true,"record_id":"rec1"},{"deleted":true,"record_id":"rec2"}]}}`))
	})

	results, err := RemoveAll(context.Background(), svc, []employee{{ID: "rec1"}, {ID: "rec2"}})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
