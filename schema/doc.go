/*
Package schema resolves per-field mapping metadata for entity types bound to
remote Bitable tables, driven by the `bitable` struct tag.

	type Task struct {
		RecordID string    `bitable:",id"`
		Title    string    `bitable:"标题,order=1"`
		Owner    string    `bitable:"负责人|Owner,order=2"`
		Due      time.Time `bitable:"截止时间,field=截止日期"`
		Internal string    `bitable:"-"`
	}

	func (Task) BitableTable() schema.TableMeta {
		return schema.TableMeta{Name: "tasks", TableID: "tblxxxx", ViewID: "vewxxxx"}
	}

Tag grammar: the first segment is a |-separated alias list (the first alias is
the remote field name); the remaining segments are `field=NAME` (overrides the
alias list), `order=N` (projection order, untagged order sorts last) and `id`
(marks the record identity field). A bare "-" excludes the field.

Resolution is memoized per type and safe for concurrent first access.
*/
package schema
