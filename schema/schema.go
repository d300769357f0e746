package schema

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/raywall/bitable-toolkit/bitable"
)

// TagName is the struct tag read by the resolver.
const TagName = "bitable"

// TableMeta binds an entity type to a remote table.
type TableMeta struct {
	Name            string
	TableID         string
	ViewID          string
	DefaultViewName string
}

// TableProvider is implemented by entity types that know their table.
type TableProvider interface {
	BitableTable() TableMeta
}

// FieldMapping describes one struct field of a resolved entity type.
type FieldMapping struct {
	// Name is the Go field name; Remote the resolved remote field name.
	Name   string
	Remote string
	// Order is the explicit projection order; untagged order is math.MaxInt
	// and sorts last.
	Order int
	// Index is the reflect index path, including promoted embedded fields.
	Index []int
	// ID marks the record identity field.
	ID bool
	// Tagged reports whether the field carries a bitable tag.
	Tagged bool
	Type   reflect.Type
}

// Metadata is the immutable mapping table of one entity type.
type Metadata struct {
	Type      reflect.Type
	Fields    []FieldMapping // declaration order, promoted fields included
	identity  *FieldMapping
	hasTagged bool
	names     map[string]string
}

var cache sync.Map // reflect.Type -> *Metadata

// Resolve returns the metadata of t, building and memoizing it on first use.
// Pointer types are dereferenced. Non-struct types yield metadata with no
// fields.
func Resolve(t reflect.Type) *Metadata {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return &Metadata{Type: t, names: syntheticNames(nil)}
	}
	if cached, ok := cache.Load(t); ok {
		return cached.(*Metadata)
	}
	meta := build(t)
	actual, _ := cache.LoadOrStore(t, meta)
	return actual.(*Metadata)
}

// Of resolves the metadata of T.
func Of[T any]() *Metadata {
	return Resolve(reflect.TypeFor[T]())
}

// TableOf returns the table binding of t, or an error when the type does not
// implement TableProvider or leaves the table id blank.
func TableOf(t reflect.Type) (TableMeta, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return TableMeta{}, bitable.NewError(bitable.CodeParamRequired, "entity type must not be nil")
	}
	v := reflect.New(t)
	provider, ok := v.Interface().(TableProvider)
	if !ok {
		if p, ok2 := v.Elem().Interface().(TableProvider); ok2 {
			provider, ok = p, true
		}
	}
	if !ok {
		return TableMeta{}, bitable.NewError(bitable.CodeTableMetaMissing, "type %s does not implement schema.TableProvider", t)
	}
	meta := provider.BitableTable()
	if strings.TrimSpace(meta.TableID) == "" {
		return TableMeta{}, bitable.NewError(bitable.CodeParamRequired, "type %s declares no table id", t)
	}
	return meta, nil
}

// TableFor resolves the table binding of T.
func TableFor[T any]() (TableMeta, error) {
	return TableOf(reflect.TypeFor[T]())
}

func build(t reflect.Type) *Metadata {
	meta := &Metadata{Type: t}
	collect(meta, t, nil, map[string]bool{})
	for i := range meta.Fields {
		f := &meta.Fields[i]
		if f.ID && meta.identity == nil {
			meta.identity = f
		}
		if f.Tagged && !f.ID {
			meta.hasTagged = true
		}
	}
	meta.names = syntheticNames(meta.Fields)
	return meta
}

func collect(meta *Metadata, t reflect.Type, index []int, seen map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, tagged := sf.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		path := append(append([]int(nil), index...), i)
		if sf.Anonymous && !tagged {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collect(meta, ft, path, seen)
				continue
			}
		}
		if sf.PkgPath != "" {
			continue // unexported
		}
		if seen[sf.Name] {
			continue // shadowed by an outer field
		}
		seen[sf.Name] = true

		fm := FieldMapping{
			Name:   sf.Name,
			Order:  math.MaxInt,
			Index:  path,
			Tagged: tagged,
			Type:   sf.Type,
		}
		if tagged {
			parseTag(tag, &fm)
		}
		if fm.ID {
			fm.Remote = bitable.FieldRecordID
		} else if fm.Remote == "" {
			fm.Remote = sf.Name
		}
		meta.Fields = append(meta.Fields, fm)
	}
}

func parseTag(tag string, fm *FieldMapping) {
	parts := strings.Split(tag, ",")
	if aliases := strings.Split(parts[0], "|"); len(aliases) > 0 {
		if first := strings.TrimSpace(aliases[0]); first != "" {
			fm.Remote = first
		}
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case part == "id":
			fm.ID = true
		case strings.HasPrefix(part, "field="):
			if name := strings.TrimSpace(strings.TrimPrefix(part, "field=")); name != "" {
				fm.Remote = name
			}
		case strings.HasPrefix(part, "order="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "order=")); err == nil {
				fm.Order = n
			}
		}
	}
}

func syntheticNames(fields []FieldMapping) map[string]string {
	names := make(map[string]string, len(fields)+6)
	for _, f := range fields {
		names[f.Name] = f.Remote
	}
	names["RecordID"] = bitable.FieldRecordID
	names["recordId"] = bitable.FieldRecordID
	names[bitable.FieldRecordID] = bitable.FieldRecordID
	names["CreatedTime"] = bitable.FieldCreatedTime
	names["createdTime"] = bitable.FieldCreatedTime
	names[bitable.FieldCreatedTime] = bitable.FieldCreatedTime
	names["LastModifiedTime"] = bitable.FieldLastModifiedTime
	names["lastModifiedTime"] = bitable.FieldLastModifiedTime
	names[bitable.FieldLastModifiedTime] = bitable.FieldLastModifiedTime
	return names
}

// RemoteName translates a Go field name (or synthetic alias) to its remote
// field name. Unknown names pass through unchanged.
func (m *Metadata) RemoteName(name string) string {
	if name == "" {
		return name
	}
	if remote, ok := m.names[name]; ok {
		return remote
	}
	return name
}

// Identity returns the identity field mapping, when one is declared.
func (m *Metadata) Identity() (FieldMapping, bool) {
	if m.identity == nil {
		return FieldMapping{}, false
	}
	return *m.identity, true
}

// HasTagged reports whether any non-identity field carries a bitable tag.
// When true, untagged fields drop out of the projection and write sets.
func (m *Metadata) HasTagged() bool {
	return m.hasTagged
}

// FieldNames returns the remote names of the projected fields, sorted by
// explicit order then declaration order. An entity with no tagged fields
// projects nothing.
func (m *Metadata) FieldNames() []string {
	if !m.hasTagged {
		return nil
	}
	tagged := make([]FieldMapping, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Tagged && !f.ID {
			tagged = append(tagged, f)
		}
	}
	sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Order < tagged[j].Order })
	names := make([]string, 0, len(tagged))
	for _, f := range tagged {
		if f.Remote != "" {
			names = append(names, f.Remote)
		}
	}
	return names
}

// WritableFields returns the mappings contributing to a write map, in
// declaration order: the identity field is excluded, and with at least one
// tagged field the untagged ones are excluded too.
func (m *Metadata) WritableFields() []FieldMapping {
	out := make([]FieldMapping, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.ID {
			continue
		}
		if m.hasTagged && !f.Tagged {
			continue
		}
		out = append(out, f)
	}
	return out
}

var syntheticByAlias = map[string]string{
	"record_id":          bitable.FieldRecordID,
	"recordid":           bitable.FieldRecordID,
	"created_time":       bitable.FieldCreatedTime,
	"createdtime":        bitable.FieldCreatedTime,
	"last_modified_time": bitable.FieldLastModifiedTime,
	"lastmodifiedtime":   bitable.FieldLastModifiedTime,
}

// SyntheticRemote maps a field name to the synthetic record attribute it
// aliases (record_id, created_time or last_modified_time). The match is case
// insensitive; the second return is false for regular names.
func SyntheticRemote(name string) (string, bool) {
	remote, ok := syntheticByAlias[strings.ToLower(name)]
	return remote, ok
}
