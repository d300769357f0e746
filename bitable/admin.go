package bitable

// Payloads of the table and field administration endpoints.

// TableSpec describes a table to be created.
type TableSpec struct {
	Name            string      `json:"name"`
	DefaultViewName string      `json:"default_view_name,omitempty"`
	Fields          []FieldSpec `json:"fields,omitempty"`
}

// FieldSpec describes a field inside a table creation or field admin call.
type FieldSpec struct {
	FieldName   string         `json:"field_name"`
	Type        int            `json:"type"`
	UIType      string         `json:"ui_type,omitempty"`
	Property    *FieldProperty `json:"property,omitempty"`
	Description *FieldDesc     `json:"description,omitempty"`
}

// FieldProperty carries type-specific settings, e.g. the option list of a
// select field.
type FieldProperty struct {
	Options    []FieldOption `json:"options,omitempty"`
	DateFormat string        `json:"date_formatter,omitempty"`
	Formatter  string        `json:"formatter,omitempty"`
	Multiple   bool          `json:"multiple,omitempty"`
}

// FieldOption is one entry of a select field's option list.
type FieldOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color int    `json:"color,omitempty"`
}

// FieldDesc is the description block of a field.
type FieldDesc struct {
	DisableSync bool   `json:"disable_sync,omitempty"`
	Text        string `json:"text,omitempty"`
}

// FieldInfo is one field as listed by the field admin endpoint.
type FieldInfo struct {
	FieldID     string         `json:"field_id"`
	FieldName   string         `json:"field_name"`
	Type        int            `json:"type"`
	UIType      string         `json:"ui_type,omitempty"`
	IsPrimary   bool           `json:"is_primary,omitempty"`
	IsHidden    bool           `json:"is_hidden,omitempty"`
	Property    *FieldProperty `json:"property,omitempty"`
	Description *FieldDesc     `json:"description,omitempty"`
}

// CreateTableRequest wraps the table spec of a create call.
type CreateTableRequest struct {
	Table TableSpec `json:"table"`
}

// CreateTableData is the payload returned by table creation.
type CreateTableData struct {
	TableID       string   `json:"table_id"`
	DefaultViewID string   `json:"default_view_id,omitempty"`
	FieldIDList   []string `json:"field_id_list,omitempty"`
}

// BatchCreateTableRequest carries several table specs.
type BatchCreateTableRequest struct {
	Tables []TableSpec `json:"tables"`
}

// BatchCreateTableData lists the ids of the created tables.
type BatchCreateTableData struct {
	TableIDs []string `json:"table_ids"`
}

// UpdateTableRequest renames a table.
type UpdateTableRequest struct {
	Name string `json:"name"`
}

// UpdateTableData is the payload returned by a table rename.
type UpdateTableData struct {
	Name string `json:"name"`
}

// BatchDeleteTableRequest carries the ids of the tables to remove.
type BatchDeleteTableRequest struct {
	TableIDs []string `json:"table_ids"`
}

// TableInfo is one table as listed by the table admin endpoint.
type TableInfo struct {
	TableID  string `json:"table_id"`
	Revision int    `json:"revision,omitempty"`
	Name     string `json:"name"`
}

// ListTableData is the payload of the table listing endpoint.
type ListTableData struct {
	HasMore   bool        `json:"has_more"`
	PageToken string      `json:"page_token,omitempty"`
	Total     int         `json:"total"`
	Items     []TableInfo `json:"items"`
}

// FieldData wraps the single field returned by field create/update.
type FieldData struct {
	Field FieldInfo `json:"field"`
}

// ListFieldData is the payload of the field listing endpoint.
type ListFieldData struct {
	HasMore   bool        `json:"has_more"`
	PageToken string      `json:"page_token,omitempty"`
	Total     int         `json:"total"`
	Items     []FieldInfo `json:"items"`
}

// DeleteFieldData is the payload of a field deletion.
type DeleteFieldData struct {
	FieldID string `json:"field_id"`
	Deleted bool   `json:"deleted"`
}

// DeleteTableData is the payload of a table deletion.
type DeleteTableData struct {
	Deleted bool `json:"deleted"`
}
