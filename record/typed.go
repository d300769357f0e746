package record

import (
	"context"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/mapper"
	"github.com/raywall/bitable-toolkit/schema"
)

// Page is one page of typed search results.
type Page[T any] struct {
	Items     []T
	Total     int
	HasMore   bool
	PageToken string
}

// Create inserts an entity and returns it hydrated with the server-assigned
// identity.
func Create[T any](ctx context.Context, s *Service, entity T) (*T, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	fields, err := mapper.Fields(entity)
	if err != nil {
		return nil, err
	}
	rec, err := s.Add(ctx, table.TableID, fields)
	if err != nil {
		return nil, err
	}
	out, _, err := mapper.Entity[T](rec)
	return out, err
}

// CreateAll inserts a batch of entities, returning them as stored.
func CreateAll[T any](ctx context.Context, s *Service, entities []T, opts *BatchCreateOptions) ([]T, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	payloads := make([]map[string]any, 0, len(entities))
	for i := range entities {
		fields, err := mapper.Fields(entities[i])
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, fields)
	}
	records, err := s.BatchCreate(ctx, table.TableID, payloads, opts)
	if err != nil {
		return nil, err
	}
	return mapper.Entities[T](records)
}

// Get fetches one entity by record id.
func Get[T any](ctx context.Context, s *Service, recordID string) (*T, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, table.TableID, recordID)
	if err != nil {
		return nil, err
	}
	out, _, err := mapper.Entity[T](rec)
	return out, err
}

// Save overwrites the stored record behind an entity, addressed by its
// identity field.
func Save[T any](ctx context.Context, s *Service, entity T) (*T, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	recordID, err := mapper.RecordID(entity)
	if err != nil {
		return nil, err
	}
	fields, err := mapper.Fields(entity)
	if err != nil {
		return nil, err
	}
	rec, err := s.Update(ctx, table.TableID, recordID, fields)
	if err != nil {
		return nil, err
	}
	out, _, err := mapper.Entity[T](rec)
	return out, err
}

// SaveAll overwrites a batch of entities in one call.
func SaveAll[T any](ctx context.Context, s *Service, entities []T) ([]T, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	updates := make([]bitable.RecordUpdate, 0, len(entities))
	for i := range entities {
		recordID, err := mapper.RecordID(entities[i])
		if err != nil {
			return nil, err
		}
		fields, err := mapper.Fields(entities[i])
		if err != nil {
			return nil, err
		}
		updates = append(updates, bitable.RecordUpdate{RecordID: recordID, Fields: fields})
	}
	records, err := s.BatchUpdate(ctx, table.TableID, updates)
	if err != nil {
		return nil, err
	}
	return mapper.Entities[T](records)
}

// Remove deletes the stored record behind an entity.
func Remove[T any](ctx context.Context, s *Service, entity T) (bool, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return false, err
	}
	recordID, err := mapper.RecordID(entity)
	if err != nil {
		return false, err
	}
	return s.Delete(ctx, table.TableID, recordID)
}

// RemoveAll deletes a batch of entities, returning the per-record outcome.
func RemoveAll[T any](ctx context.Context, s *Service, entities []T) ([]bitable.DeleteData, error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entities))
	for i := range entities {
		recordID, err := mapper.RecordID(entities[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, recordID)
	}
	return s.BatchDelete(ctx, table.TableID, ids)
}

// Query runs a typed search. A request without a view id or projection gets
// them from the entity metadata, so a plain query.For[T]().Build() reads the
// declared view with the declared field set.
func Query[T any](ctx context.Context, s *Service, req *bitable.SearchRequest) (*Page[T], error) {
	table, err := schema.TableFor[T]()
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &bitable.SearchRequest{}
	}
	prepared := *req
	if prepared.ViewID == "" {
		prepared.ViewID = table.ViewID
	}
	if prepared.FieldNames == nil {
		prepared.FieldNames = schema.Of[T]().FieldNames()
	}
	data, err := s.Search(ctx, table.TableID, &prepared)
	if err != nil {
		return nil, err
	}
	items, err := mapper.Entities[T](data.Items)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Items:     items,
		Total:     data.Total,
		HasMore:   data.HasMore,
		PageToken: data.PageToken,
	}, nil
}

// QueryAll drains every page of a typed search. The request's own pagination
// fields are ignored apart from the page size.
func QueryAll[T any](ctx context.Context, s *Service, req *bitable.SearchRequest) ([]T, error) {
	if req == nil {
		req = &bitable.SearchRequest{}
	}
	walk := *req
	walk.PageNo = 0
	walk.PageToken = ""

	var out []T
	for {
		page, err := Query[T](ctx, s, &walk)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.HasMore || page.PageToken == "" {
			return out, nil
		}
		walk.PageToken = page.PageToken
	}
}
