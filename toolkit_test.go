package bitabletoolkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/config"
	"github.com/raywall/bitable-toolkit/query"
	"github.com/raywall/bitable-toolkit/record"
	"github.com/raywall/bitable-toolkit/schema"
)

type contact struct {
	ID    string `bitable:"id"`
	Name  string `bitable:"name,field=Full Name,order=1"`
	Email string `bitable:"email,order=2"`
}

func (contact) BitableTable() schema.TableMeta {
	return schema.TableMeta{Name: "Contacts", TableID: "tblC", ViewID: "vewC"}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConf{
			AppID:     "cli_test",
			AppSecret: "secret",
			AppToken:  "bascTest",
		},
		Client: config.ClientConf{BaseURL: baseURL, Timeout: "5s"},
		Token:  config.TokenConf{Store: "memory"},
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&config.Config{Token: config.TokenConf{Store: "memory"}})
	require.Error(t, err)
}

func TestToolkitEndToEnd(t *testing.T) {
	var tokenFetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case bitable.PathAppAccessToken:
			tokenFetches.Add(1)
			_, _ = w.Write([]byte(`{"code":0,"tenant_access_token":"tok-1","expire":7200}`))
		case "/bitable/v1/apps/bascTest/tables/tblC/records":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"code":0,"data":{"record":{"record_id":"rec1","fields":{"Full Name":"Ada","email":"ada@x.dev"}}}}`))
		case "/bitable/v1/apps/bascTest/tables/tblC/records/search":
			_, _ = w.Write([]byte(`{"code":0,"data":{"has_more":false,"total":1,"items":[{"record_id":"rec1","fields":{"Full Name":"Ada","email":"ada@x.dev"}}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	tk, err := New(testConfig(server.URL))
	require.NoError(t, err)

	ctx := context.Background()
	created, err := record.Create(ctx, tk.Records, contact{Name: "Ada", Email: "ada@x.dev"})
	require.NoError(t, err)
	assert.Equal(t, "rec1", created.ID)
	assert.Equal(t, "Ada", created.Name)

	page, err := record.Query[contact](ctx, tk.Records, query.For[contact]().Eq("Name", "Ada").Build())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ada@x.dev", page.Items[0].Email)

	assert.EqualValues(t, 1, tokenFetches.Load(), "both calls share one cached token")
}
