package mapper

import (
	"fmt"
	"reflect"
	"time"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/schema"
)

// Issue reports one field that could not be hydrated. Hydration never aborts
// on a field mismatch; it records the problem and moves on.
type Issue struct {
	Field  string
	Remote string
	Err    error
}

func (i Issue) String() string {
	return fmt.Sprintf("%s (%s): %v", i.Field, i.Remote, i.Err)
}

// Fields flattens a payload into a remote field map. A map payload is
// shallow-copied; a struct payload is mapped through its schema metadata:
// the identity field is excluded, nil values (and zero time.Time values) are
// skipped and the remaining values are coerced with ToRemote.
func Fields(payload any) (map[string]any, error) {
	if payload == nil {
		return nil, bitable.NewError(bitable.CodeParamRequired, "payload must not be nil")
	}
	if m, ok := payload.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}

	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, bitable.NewError(bitable.CodeParamRequired, "payload must not be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, bitable.NewError(bitable.CodeEntityMappingFail, "payload must be a struct or map[string]any, got %T", payload)
	}

	meta := schema.Resolve(v.Type())
	out := make(map[string]any)
	for _, f := range meta.WritableFields() {
		fv, ok := fieldByIndex(v, f.Index)
		if !ok {
			continue
		}
		if isEmptyValue(fv) {
			continue
		}
		out[f.Remote] = ToRemote(fv.Interface())
	}
	return out, nil
}

// Entity hydrates one record into a freshly constructed T. The identity
// field is sourced from the record identity; every other mapped field — plus
// untagged fields named after a synthetic attribute — from the field map,
// falling back to the matching synthetic attribute. Field-level coercion
// failures come back as issues, never as an error.
func Entity[T any](rec *bitable.Record) (*T, []Issue, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, nil, bitable.NewError(bitable.CodeEntityConstructFail, "hydration target %s is not a struct", t)
	}
	out := new(T)
	if rec == nil {
		return out, nil, nil
	}

	meta := schema.Resolve(t)
	dst := reflect.ValueOf(out).Elem()
	var issues []Issue
	for _, f := range meta.Fields {
		var raw any
		switch {
		case f.ID:
			raw = rec.RecordID
		case meta.HasTagged() && !f.Tagged:
			if _, ok := schema.SyntheticRemote(f.Name); !ok {
				continue
			}
			raw = lookupField(rec, f.Remote)
		default:
			raw = lookupField(rec, f.Remote)
		}
		if raw == nil {
			continue
		}
		converted, err := FromRemote(raw, f.Type)
		if err != nil {
			issues = append(issues, Issue{Field: f.Name, Remote: f.Remote, Err: err})
			continue
		}
		if converted == nil {
			continue
		}
		cv := reflect.ValueOf(converted)
		fv := settableField(dst, f.Index)
		if !cv.Type().AssignableTo(fv.Type()) {
			issues = append(issues, Issue{Field: f.Name, Remote: f.Remote,
				Err: fmt.Errorf("mapper: value of type %T does not fit %s", converted, fv.Type())})
			continue
		}
		fv.Set(cv)
	}
	return out, issues, nil
}

// Entities hydrates a record list, favoring partial results: per-field
// issues are dropped, only a construction failure aborts.
func Entities[T any](items []bitable.Record) ([]T, error) {
	out := make([]T, 0, len(items))
	for i := range items {
		entity, _, err := Entity[T](&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *entity)
	}
	return out, nil
}

// RecordID resolves the record identity of a payload: for a map, the
// record_id key or its camel-cased alias; for a struct, the identity-marked
// field, then any field named after a synthetic alias.
func RecordID(payload any) (string, error) {
	if payload == nil {
		return "", bitable.NewError(bitable.CodeParamRequired, "payload must not be nil")
	}
	if m, ok := payload.(map[string]any); ok {
		for _, key := range []string{bitable.FieldRecordID, "recordId"} {
			if v, ok := m[key]; ok && v != nil {
				if s := fmt.Sprint(v); s != "" {
					return s, nil
				}
			}
		}
		return "", bitable.NewError(bitable.CodeRecordIDMissing, "record id not present in field map")
	}

	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", bitable.NewError(bitable.CodeParamRequired, "payload must not be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", bitable.NewError(bitable.CodeRecordIDMissing, "cannot resolve record id from %T", payload)
	}

	meta := schema.Resolve(v.Type())
	if id, ok := meta.Identity(); ok {
		if s := stringOf(v, id.Index); s != "" {
			return s, nil
		}
	}
	for _, f := range meta.Fields {
		if f.ID {
			continue
		}
		if remote, ok := schema.SyntheticRemote(f.Name); !ok || remote != bitable.FieldRecordID {
			continue
		}
		if s := stringOf(v, f.Index); s != "" {
			return s, nil
		}
	}
	return "", bitable.NewError(bitable.CodeRecordIDMissing, "record id not set on %s", v.Type())
}

func lookupField(rec *bitable.Record, name string) any {
	if rec.Fields != nil {
		if v, ok := rec.Fields[name]; ok && v != nil {
			return v
		}
	}
	synthetic, ok := schema.SyntheticRemote(name)
	if !ok {
		return nil
	}
	switch synthetic {
	case bitable.FieldRecordID:
		if rec.RecordID == "" {
			return nil
		}
		return rec.RecordID
	case bitable.FieldCreatedTime:
		if rec.CreatedTime == "" {
			return nil
		}
		return rec.CreatedTime
	case bitable.FieldLastModifiedTime:
		if rec.LastModifiedTime == "" {
			return nil
		}
		return rec.LastModifiedTime
	}
	return nil
}

// settableField walks an index path for writing, allocating nil embedded
// pointers along the way.
func settableField(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for _, i := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if v.IsNil() {
			return true
		}
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t.IsZero()
	}
	return false
}

func stringOf(v reflect.Value, index []int) string {
	fv, ok := fieldByIndex(v, index)
	if !ok || !fv.IsValid() {
		return ""
	}
	if isEmptyValue(fv) {
		return ""
	}
	for fv.Kind() == reflect.Pointer {
		fv = fv.Elem()
	}
	if fv.Kind() == reflect.Invalid {
		return ""
	}
	return fmt.Sprint(fv.Interface())
}
