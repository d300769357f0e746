package table

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raywall/bitable-toolkit/bitable"
	"github.com/raywall/bitable-toolkit/transport"
)

// Service performs table administration against one Bitable app.
type Service struct {
	session *transport.Session
	logger  zerolog.Logger
}

// NewService creates a table admin service over a session.
func NewService(session *transport.Session, logger zerolog.Logger) *Service {
	return &Service{session: session, logger: logger}
}

// Create adds a table to the app.
func (s *Service) Create(ctx context.Context, spec bitable.TableSpec) (*bitable.CreateTableData, error) {
	if err := s.session.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, bitable.NewError(bitable.CodeParamRequired, "table name is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathTables, s.session.AppToken)
	data, err := transport.Call[bitable.CreateTableData](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.CreateTableRequest{Table: spec})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("table_id", data.TableID).Str("name", spec.Name).Msg("table created")
	return data, nil
}

// BatchCreate adds several tables in one call and returns their ids.
func (s *Service) BatchCreate(ctx context.Context, specs []bitable.TableSpec) ([]string, error) {
	if err := s.session.Validate(); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "batch create needs at least one table")
	}
	for _, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, bitable.NewError(bitable.CodeParamRequired, "table without a name in batch create")
		}
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathTablesBatchCreate, s.session.AppToken)
	data, err := transport.Call[bitable.BatchCreateTableData](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.BatchCreateTableRequest{Tables: specs})
	if err != nil {
		return nil, err
	}
	return data.TableIDs, nil
}

// Update renames a table.
func (s *Service) Update(ctx context.Context, tableID, name string) (string, error) {
	if err := s.session.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(tableID) == "" {
		return "", bitable.NewError(bitable.CodeTableConfigMissing, "table id is required")
	}
	if strings.TrimSpace(name) == "" {
		return "", bitable.NewError(bitable.CodeParamRequired, "table name is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return "", err
	}
	path := transport.Path(bitable.PathTable, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.UpdateTableData](ctx, s.session.Client, http.MethodPatch, path, tok, nil, bitable.UpdateTableRequest{Name: name})
	if err != nil {
		return "", err
	}
	return data.Name, nil
}

// Delete removes one table.
func (s *Service) Delete(ctx context.Context, tableID string) error {
	if err := s.session.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tableID) == "" {
		return bitable.NewError(bitable.CodeTableConfigMissing, "table id is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return err
	}
	path := transport.Path(bitable.PathTable, s.session.AppToken, tableID)
	_, err = transport.Call[bitable.DeleteTableData](ctx, s.session.Client, http.MethodDelete, path, tok, nil, nil)
	return err
}

// BatchDelete removes several tables in one call.
func (s *Service) BatchDelete(ctx context.Context, tableIDs []string) error {
	if err := s.session.Validate(); err != nil {
		return err
	}
	if len(tableIDs) == 0 {
		return bitable.NewError(bitable.CodeParamRequired, "batch delete needs at least one table id")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return err
	}
	path := transport.Path(bitable.PathTablesBatchDelete, s.session.AppToken)
	_, err = transport.Call[struct{}](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.BatchDeleteTableRequest{TableIDs: tableIDs})
	return err
}

// List returns one page of the app's tables.
func (s *Service) List(ctx context.Context, pageToken string, pageSize int) (*bitable.ListTableData, error) {
	if err := s.session.Validate(); err != nil {
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
	path := transport.Path(bitable.PathTables, s.session.AppToken)
	return transport.Call[bitable.ListTableData](ctx, s.session.Client, http.MethodGet, path, tok, query, nil)
}

// ListAll drains every page of the table listing.
func (s *Service) ListAll(ctx context.Context) ([]bitable.TableInfo, error) {
	var out []bitable.TableInfo
	pageToken := ""
	for {
		page, err := s.List(ctx, pageToken, 0)
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
