package bitable

// DefaultBaseURL is the open API prefix used when no base URL is configured.
const DefaultBaseURL = "https://open.feishu.cn/open-apis"

// Endpoint path templates, relative to the API base. Placeholders are filled
// positionally by the transport client.
const (
	PathAppAccessToken = "/auth/v3/app_access_token/internal"

	PathRecords            = "/bitable/v1/apps/%s/tables/%s/records"
	PathRecord             = "/bitable/v1/apps/%s/tables/%s/records/%s"
	PathRecordsSearch      = "/bitable/v1/apps/%s/tables/%s/records/search"
	PathRecordsBatchCreate = "/bitable/v1/apps/%s/tables/%s/records/batch_create"
	PathRecordsBatchUpdate = "/bitable/v1/apps/%s/tables/%s/records/batch_update"
	PathRecordsBatchDelete = "/bitable/v1/apps/%s/tables/%s/records/batch_delete"
	PathRecordsBatchGet    = "/bitable/v1/apps/%s/tables/%s/records/batch_get"

	PathTables            = "/bitable/v1/apps/%s/tables"
	PathTable             = "/bitable/v1/apps/%s/tables/%s"
	PathTablesBatchCreate = "/bitable/v1/apps/%s/tables/batch_create"
	PathTablesBatchDelete = "/bitable/v1/apps/%s/tables/batch_delete"

	PathFields = "/bitable/v1/apps/%s/tables/%s/fields"
	PathField  = "/bitable/v1/apps/%s/tables/%s/fields/%s"
)

// AuthorizationPrefix precedes the app access token in the Authorization header.
const AuthorizationPrefix = "Bearer "

// Synthetic field names carried by every record outside its field map.
const (
	FieldRecordID         = "record_id"
	FieldCreatedTime      = "created_time"
	FieldLastModifiedTime = "last_modified_time"
)
