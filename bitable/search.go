package bitable

// Filter conjunctions and condition operators understood by the search
// endpoint.
const (
	ConjunctionAnd = "and"
	ConjunctionOr  = "or"

	OpIs             = "is"
	OpIsNot          = "isNot"
	OpContains       = "contains"
	OpDoesNotContain = "doesNotContain"
	OpIsGreater      = "isGreater"
	OpIsGreaterEqual = "isGreaterEqual"
	OpIsLess         = "isLess"
	OpIsLessEqual    = "isLessEqual"
	OpIn             = "in"
	OpIsEmpty        = "isEmpty"
	OpIsNotEmpty     = "isNotEmpty"
)

// SearchRequest is the compiled query sent to the record search endpoint.
// PageToken, PageNo and PageSize never travel in the body: page_token and
// page_size go on the URL, and PageNo is emulated client side by walking
// page tokens.
type SearchRequest struct {
	ViewID          string   `json:"view_id,omitempty"`
	FieldNames      []string `json:"field_names,omitempty"`
	Sort            []Sort   `json:"sort,omitempty"`
	AutomaticFields *bool    `json:"automatic_fields,omitempty"`
	Filter          *Filter  `json:"filter,omitempty"`

	PageToken string `json:"-"`
	PageNo    int    `json:"-"`
	PageSize  int    `json:"-"`
}

// Body returns a copy stripped of the pagination fields, suitable for JSON
// encoding as the request body.
func (r *SearchRequest) Body() *SearchRequest {
	if r == nil {
		return &SearchRequest{}
	}
	return &SearchRequest{
		ViewID:          r.ViewID,
		FieldNames:      r.FieldNames,
		Sort:            r.Sort,
		AutomaticFields: r.AutomaticFields,
		Filter:          r.Filter,
	}
}

// Sort is one sort directive of a search request.
type Sort struct {
	FieldName string `json:"field_name"`
	Desc      bool   `json:"desc"`
}

// Filter is the two-level filter tree of a search request: either a flat
// conjunction of Conditions, or an "or" of "and" children. Deeper nesting is
// not part of the protocol.
type Filter struct {
	Conjunction string      `json:"conjunction"`
	Conditions  []Condition `json:"conditions,omitempty"`
	Children    []*Filter   `json:"children,omitempty"`
}

// Condition is a single field predicate. Value is always list-shaped on the
// wire, including the empty list for isEmpty/isNotEmpty.
type Condition struct {
	FieldName string `json:"field_name"`
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
}
