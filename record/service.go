package record

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

// Service performs record operations against one Bitable app.
type Service struct {
	session *transport.Session
	logger  zerolog.Logger
}

// NewService creates a record service over a session.
func NewService(session *transport.Session, logger zerolog.Logger) *Service {
	return &Service{session: session, logger: logger}
}

// BatchCreateOptions tunes a batch create call. The zero value asks for
// consistency checking with a generated idempotency token.
type BatchCreateOptions struct {
	// UserIDType selects the id form of person fields (open_id, union_id,
	// user_id).
	UserIDType string
	// ClientToken deduplicates retried calls; generated when empty.
	ClientToken string
	// IgnoreConsistencyCheck skips the server-side read-your-writes check.
	IgnoreConsistencyCheck bool
}

// Add inserts one record and returns it as stored.
func (s *Service) Add(ctx context.Context, tableID string, fields map[string]any) (*bitable.Record, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "record fields must not be empty")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecords, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.RecordData](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.FieldsRequest{Fields: fields})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("table_id", tableID).Str("record_id", data.Record.RecordID).Msg("record created")
	return &data.Record, nil
}

// Get fetches one record by id.
func (s *Service) Get(ctx context.Context, tableID, recordID string) (*bitable.Record, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, bitable.NewError(bitable.CodeRecordIDMissing, "record id is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecord, s.session.AppToken, tableID, recordID)
	data, err := transport.Call[bitable.RecordData](ctx, s.session.Client, http.MethodGet, path, tok, nil, nil)
	if err != nil {
		return nil, err
	}
	return &data.Record, nil
}

// Update overwrites the given fields of one record.
func (s *Service) Update(ctx context.Context, tableID, recordID string, fields map[string]any) (*bitable.Record, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, bitable.NewError(bitable.CodeRecordIDMissing, "record id is required")
	}
	if len(fields) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "record fields must not be empty")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecord, s.session.AppToken, tableID, recordID)
	data, err := transport.Call[bitable.RecordData](ctx, s.session.Client, http.MethodPut, path, tok, nil, bitable.FieldsRequest{Fields: fields})
	if err != nil {
		return nil, err
	}
	return &data.Record, nil
}

// Delete removes one record, reporting whether the server deleted it.
func (s *Service) Delete(ctx context.Context, tableID, recordID string) (bool, error) {
	if err := s.check(tableID); err != nil {
		return false, err
	}
	if strings.TrimSpace(recordID) == "" {
		return false, bitable.NewError(bitable.CodeRecordIDMissing, "record id is required")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return false, err
	}
	path := transport.Path(bitable.PathRecord, s.session.AppToken, tableID, recordID)
	data, err := transport.Call[bitable.DeleteData](ctx, s.session.Client, http.MethodDelete, path, tok, nil, nil)
	if err != nil {
		return false, err
	}
	return data.Deleted, nil
}

// BatchCreate inserts up to 500 records in one call.
func (s *Service) BatchCreate(ctx context.Context, tableID string, records []map[string]any, opts *BatchCreateOptions) ([]bitable.Record, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "batch create needs at least one record")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &BatchCreateOptions{}
	}
	query := url.Values{}
	if opts.UserIDType != "" {
		query.Set("user_id_type", opts.UserIDType)
	}
	clientToken := opts.ClientToken
	if clientToken == "" {
		clientToken = uuid.NewString()
	}
	query.Set("client_token", clientToken)
	if opts.IgnoreConsistencyCheck {
		query.Set("ignore_consistency_check", "true")
	}

	body := bitable.BatchCreateRequest{Records: make([]bitable.RecordFields, 0, len(records))}
	for _, fields := range records {
		body.Records = append(body.Records, bitable.RecordFields{Fields: fields})
	}
	path := transport.Path(bitable.PathRecordsBatchCreate, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.RecordsData](ctx, s.session.Client, http.MethodPost, path, tok, query, body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("table_id", tableID).Int("count", len(data.Records)).Msg("records batch created")
	return data.Records, nil
}

// BatchUpdate overwrites fields of several records in one call.
func (s *Service) BatchUpdate(ctx context.Context, tableID string, updates []bitable.RecordUpdate) ([]bitable.Record, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "batch update needs at least one record")
	}
	for _, u := range updates {
		if strings.TrimSpace(u.RecordID) == "" {
			return nil, bitable.NewError(bitable.CodeRecordIDMissing, "batch update record without an id")
		}
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecordsBatchUpdate, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.RecordsData](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.BatchUpdateRequest{Records: updates})
	if err != nil {
		return nil, err
	}
	return data.Records, nil
}

// BatchDelete removes several records, returning the per-record outcome.
func (s *Service) BatchDelete(ctx context.Context, tableID string, recordIDs []string) ([]bitable.DeleteData, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if len(recordIDs) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "batch delete needs at least one record id")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecordsBatchDelete, s.session.AppToken, tableID)
	data, err := transport.Call[bitable.DeleteRecordsData](ctx, s.session.Client, http.MethodPost, path, tok, nil, bitable.BatchDeleteRequest{Records: recordIDs})
	if err != nil {
		return nil, err
	}
	return data.Records, nil
}

// BatchGet fetches several records by id.
func (s *Service) BatchGet(ctx context.Context, tableID string, req *bitable.BatchGetRequest) (*bitable.RecordsData, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if req == nil || len(req.RecordIDs) == 0 {
		return nil, bitable.NewError(bitable.CodeParamRequired, "batch get needs at least one record id")
	}
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	path := transport.Path(bitable.PathRecordsBatchGet, s.session.AppToken, tableID)
	return transport.Call[bitable.RecordsData](ctx, s.session.Client, http.MethodPost, path, tok, nil, req)
}

// Search runs a filtered query. Pagination travels on the URL, never in the
// body; a positive PageNo is emulated by walking page tokens from the first
// page, and a page beyond the data comes back as an empty successful page.
func (s *Service) Search(ctx context.Context, tableID string, req *bitable.SearchRequest) (*bitable.SearchData, error) {
	if err := s.check(tableID); err != nil {
		return nil, err
	}
	if req == nil {
		req = &bitable.SearchRequest{}
	}
	if req.PageNo > 0 {
		return s.searchByPageNo(ctx, tableID, req)
	}
	return s.searchOnce(ctx, tableID, req, req.PageToken)
}

func (s *Service) searchByPageNo(ctx context.Context, tableID string, req *bitable.SearchRequest) (*bitable.SearchData, error) {
	pageToken := ""
	for page := 1; ; page++ {
		data, err := s.searchOnce(ctx, tableID, req, pageToken)
		if err != nil {
			return nil, err
		}
		if page == req.PageNo {
			return data, nil
		}
		if !data.HasMore || data.PageToken == "" {
			return &bitable.SearchData{HasMore: false, Total: data.Total, Items: []bitable.Record{}}, nil
		}
		pageToken = data.PageToken
	}
}

func (s *Service) searchOnce(ctx context.Context, tableID string, req *bitable.SearchRequest, pageToken string) (*bitable.SearchData, error) {
	tok, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}
	if req.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(req.PageSize))
	}
	path := transport.Path(bitable.PathRecordsSearch, s.session.AppToken, tableID)
	return transport.Call[bitable.SearchData](ctx, s.session.Client, http.MethodPost, path, tok, query, req.Body())
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
