package field

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/transport"
)

// Service performs field administration against one Bitable app.
type Service struct {
	session *transport.Session
	logger  zerolog.Logger
}

// NewService creates a field admin service over a session.
func NewService(session *transport.Session, logger zerolog.Logger) *Service {
	return &Service{session: session, logger: logger}
}

// Create adds a field to a table. clientToken deduplicates retried calls and
// is generated when empty.
func (s *Service) Create(ctx context.Context, tableID string, spec bitable.FieldSpec, clientToken string) (*bitable.FieldInfo, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.FieldName) == "" {
		return nil, bitable.NewError(bitable.CodeParamRequired, "field name is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	if clientToken == "" {
		clientToken = uuid.NewString()
	}
	query := url.Values{}
	query.Set("client_token", clientToken)
	path := transport.Path(bitable.PathFields, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.FieldData](ctx, s.session.Client, http.MethodPost, path, tok, query, spec)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("table_id", tableID).Str("field_id", data.Field.FieldID).Msg("field created")
	return &data.Field, nil
}

// Update replaces the definition of one field.
func (s *Service) Update(ctx context.Context, tableID, fieldID string, spec bitable.FieldSpec) (*bitable.FieldInfo, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fieldID) == "" {
		return nil, bitable.NewError(bitable.CodeParamRequired, "field id is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathField, s.session.AppToken, tableID, fieldID)
	data, err := transport.Call[bitable.FieldData](ctx, s.session.Client, http.MethodPut, path, tok, nil, spec)
	if err != nil {
		return nil, err
	}
	return &data.Field, nil
}

// Delete removes one field, reporting whether the server deleted it.
func (s *Service) Delete(ctx context.Context, tableID, fieldID string) (bool, error) {
	if err := s.check(tableID); err != nil {
		return false, err
	}
	if strings.TrimSpace(fieldID) == "" {
		return false, bitable.NewError(bitable.CodeParamRequired, "field id is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return false, err
	}
	path := transport.Path(bitable.PathField, s.session.AppToken, tableID, fieldID)
	data, err := transport.Call[bitable.DeleteFieldData](ctx, s.session.Client, http.MethodDelete, path, tok, nil, nil)
	if err != nil {
		return false, err
	}
	return data.Deleted, nil
}

// List returns one page of a table's fields.
func (s *Service) List(ctx context.Context, tableID, pageToken string, pageSize int) (*bitable.ListFieldData, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	path := transport.Path(bitable.PathFields, s.session.AppToken, tableID)
	return transport.Call[bitable.ListFieldData](ctx, s.session.Client, http.MethodGet, path, tok, query, nil)
}

// ListAll drains every page of a table's field listing.
func (s *Service) ListAll(ctx context.Context, tableID string) ([]bitable.FieldInfo, error) {
	var out []bitable.FieldInfo
	pageToken := ""
	for {
		page, err := s.List(ctx, tableID, pageToken, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.HasMore || page.PageToken == "" {
			return out, nil
		}
		pageToken = page.PageToken
	}
}

func (s *Service) check(tableID string) error {
	if err := s.session.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tableID) == "" {
		return bitable.NewError(bitable.CodeTableConfigMissing, "table id is required")
	}
	return nil
}
