package schema

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bitable-toolkit/bitable"
)

type contact struct {
	ID      string    `bitable:"id"`
	Name    string    `bitable:"name|fullName,field=Full Name,order=2"`
	Email   string    `bitable:"email,order=1"`
	Phone   string    `bitable:"phone"`
	Remarks string    // untagged, drops out of projection and writes
	Born    time.Time `bitable:"born,order=3"`
}

func (contact) BitableTable() TableMeta {
	return TableMeta{Name: "Contacts", TableID: "tblC", ViewID: "vewC"}
}

type plain struct {
	Name string
	Age  int
}

type base struct {
	CreatedTime time.Time
	Code        string `bitable:"code"`
}

type derived struct {
	base
	Name string `bitable:"name"`
	Code string `bitable:"-"`
}

func TestRemoteNamePrecedence(t *testing.T) {
	meta := Of[contact]()

	// field= beats the alias list
	assert.Equal(t, "Full Name", meta.RemoteName("Name"))
	// first alias when no field=
	assert.Equal(t, "email", meta.RemoteName("Email"))
	assert.Equal(t, "phone", meta.RemoteName("Phone"))
	// unknown names pass through
	assert.Equal(t, "whatever", meta.RemoteName("whatever"))
	// synthetic aliases always resolve
	assert.Equal(t, bitable.FieldRecordID, meta.RemoteName("RecordID"))
	assert.Equal(t, bitable.FieldCreatedTime, meta.RemoteName("createdTime"))
	assert.Equal(t, bitable.FieldLastModifiedTime, meta.RemoteName("last_modified_time"))
}

func TestIdentityField(t *testing.T) {
	meta := Of[contact]()
	id, ok := meta.Identity()
	require.True(t, ok)
	assert.Equal(t, "ID", id.Name)
	assert.Equal(t, bitable.FieldRecordID, id.Remote)

	_, ok = Of[plain]().Identity()
	assert.False(t, ok)
}

func TestFieldNamesOrdering(t *testing.T) {
	// explicit order ascending, unordered last, identity excluded
	assert.Equal(t, []string{"email", "Full Name", "born", "phone"}, Of[contact]().FieldNames())
}

func TestFieldNamesAllOrNothing(t *testing.T) {
	// no tagged fields means no projection at all
	assert.Nil(t, Of[plain]().FieldNames())
}

func TestWritableFields(t *testing.T) {
	meta := Of[contact]()
	var names []string
	for _, f := range meta.WritableFields() {
		names = append(names, f.Name)
	}
	// declaration order, identity and untagged excluded
	assert.Equal(t, []string{"Name", "Email", "Phone", "Born"}, names)
}

func TestWritableFieldsUntaggedEntity(t *testing.T) {
	meta := Of[plain]()
	var names []string
	for _, f := range meta.WritableFields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Name", "Age"}, names)
}

func TestEmbeddedFlatteningAndShadowing(t *testing.T) {
	meta := Of[derived]()

	byName := map[string]FieldMapping{}
	for _, f := range meta.Fields {
		byName[f.Name] = f
	}
	// promoted field from the embedded struct
	require.Contains(t, byName, "CreatedTime")
	assert.Equal(t, []int{0, 0}, byName["CreatedTime"].Index)
	// outer bitable:"-" removes the field; the embedded Code survives
	require.Contains(t, byName, "Code")
	assert.Equal(t, []int{0, 1}, byName["Code"].Index)
	assert.Equal(t, "code", byName["Code"].Remote)
}

func TestDashTagExcludes(t *testing.T) {
	type hidden struct {
		Name   string `bitable:"name"`
		Secret string `bitable:"-"`
	}
	meta := Of[hidden]()
	for _, f := range meta.Fields {
		assert.NotEqual(t, "Secret", f.Name)
	}
}

func TestResolveMemoizes(t *testing.T) {
	a := Resolve(reflect.TypeOf(contact{}))
	b := Resolve(reflect.TypeOf(&contact{}))
	assert.Same(t, a, b, "pointer and value types share one descriptor")
}

func TestResolveConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Metadata, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Of[contact]()
		}(i)
	}
	wg.Wait()
	for _, m := range results {
		require.NotNil(t, m)
		assert.Same(t, results[0], m)
	}
}

func TestResolveNonStruct(t *testing.T) {
	meta := Resolve(reflect.TypeOf(42))
	assert.Empty(t, meta.Fields)
	assert.Equal(t, bitable.FieldRecordID, meta.RemoteName("RecordID"))
}

func TestTableBinding(t *testing.T) {
	meta, err := TableFor[contact]()
	require.NoError(t, err)
	assert.Equal(t, "tblC", meta.TableID)
	assert.Equal(t, "vewC", meta.ViewID)

	_, err = TableFor[plain]()
	require.Error(t, err)
	assert.True(t, bitable.IsCode(err, bitable.CodeTableMetaMissing))
}

func TestSyntheticRemote(t *testing.T) {
	remote, ok := SyntheticRemote("RecordId")
	require.True(t, ok)
	assert.Equal(t, bitable.FieldRecordID, remote)

	remote, ok = SyntheticRemote("CREATED_TIME")
	require.True(t, ok)
	assert.Equal(t, bitable.FieldCreatedTime, remote)

	_, ok = SyntheticRemote("Name")
	assert.False(t, ok)
}
