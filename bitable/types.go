package bitable

import "encoding/json"

// Envelope is the wrapper every Bitable response uses. A non-zero Code is an
// application-level failure regardless of the HTTP status.
type Envelope[T any] struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Error string `json:"error,omitempty"`
	Data  T      `json:"data"`
}

// Record is one row of a remote table. CreatedTime and LastModifiedTime are
// json.Number because the API has returned both numeric and string forms.
type Record struct {
	RecordID         string         `json:"record_id"`
	CreatedTime      json.Number    `json:"created_time,omitempty"`
	LastModifiedTime json.Number    `json:"last_modified_time,omitempty"`
	CreatedBy        *Person        `json:"created_by,omitempty"`
	LastModifiedBy   *Person        `json:"last_modified_by,omitempty"`
	SharedURL        string         `json:"shared_url,omitempty"`
	RecordURL        string         `json:"record_url,omitempty"`
	Fields           map[string]any `json:"fields"`
}

// Person identifies the user behind created_by / last_modified_by.
type Person struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	EnName string `json:"en_name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// TokenRequest is the body of the app access token endpoint.
type TokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

// TokenResponse is the (non-enveloped) response of the token endpoint.
type TokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	AppAccessToken    string `json:"app_access_token"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// RecordData wraps the single record returned by add/update/get.
type RecordData struct {
	Record Record `json:"record"`
}

// RecordsData wraps the record list returned by the batch create/update/get
// endpoints.
type RecordsData struct {
	Records            []Record `json:"records"`
	ForbiddenRecordIDs []string `json:"forbidden_record_ids,omitempty"`
	AbsentRecordIDs    []string `json:"absent_record_ids,omitempty"`
	Total              int      `json:"total,omitempty"`
}

// DeleteData is the payload of a single record deletion.
type DeleteData struct {
	Deleted  bool   `json:"deleted"`
	RecordID string `json:"record_id"`
}

// DeleteRecordsData is the payload of a batch deletion.
type DeleteRecordsData struct {
	Records []DeleteData `json:"records"`
}

// SearchData is the payload of the record search endpoint.
type SearchData struct {
	HasMore   bool     `json:"has_more"`
	Total     int      `json:"total"`
	PageToken string   `json:"page_token,omitempty"`
	Items     []Record `json:"items"`
}

// BatchCreateRequest carries the records of a batch create call.
type BatchCreateRequest struct {
	Records []RecordFields `json:"records"`
}

// RecordFields is one record payload inside a batch create.
type RecordFields struct {
	Fields map[string]any `json:"fields"`
}

// BatchUpdateRequest carries the records of a batch update call.
type BatchUpdateRequest struct {
	Records []RecordUpdate `json:"records"`
}

// RecordUpdate is one record payload inside a batch update.
type RecordUpdate struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

// BatchDeleteRequest carries the record ids of a batch delete call.
type BatchDeleteRequest struct {
	Records []string `json:"records"`
}

// BatchGetRequest carries the record ids of a batch get call.
type BatchGetRequest struct {
	RecordIDs       []string `json:"record_ids"`
	UserIDType      string   `json:"user_id_type,omitempty"`
	WithSharedURL   bool     `json:"with_shared_url,omitempty"`
	AutomaticFields bool     `json:"automatic_fields,omitempty"`
}

// FieldsRequest is the body shared by add and update record calls.
type FieldsRequest struct {
	Fields map[string]any `json:"fields"`
}
