// Package bitabletoolkit maps typed Go structs to the records of Feishu/Lark
// Bitable tables over the open HTTP API.
//
// The sub-packages split the work the way the data flows:
//
//  1. schema: struct tag driven metadata (remote field names, projection
//     order, identity field, table binding).
//  2. mapper: value coercion between Go types and the loosely typed field
//     maps the store uses, plus record hydration with per-field diagnostics.
//  3. query: a fluent generic builder compiling to the search request's
//     two-level filter tree.
//  4. token: cached app access tokens with single-flight refresh, backed by
//     process memory or Redis.
//  5. transport: envelope-aware HTTP client for the open API.
//  6. record, table, field: the operation facades.
//
// This root package assembles all of that from a config.Config:
//
//	cfg, err := config.Load("bitable.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	tk, err := bitabletoolkit.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	type Contact struct {
//		ID    string `bitable:"id"`
//		Name  string `bitable:"name,field=Full Name,order=1"`
//		Email string `bitable:"email,order=2"`
//	}
//
//	created, err := record.Create(ctx, tk.Records, Contact{Name: "Ada", Email: "ada@x.dev"})
//
// Entity types declare their table by implementing schema.TableProvider; the
// typed helpers in record resolve everything else from the struct tags.
package bitabletoolkit
