// Package field administers the fields of a Bitable table: listing,
// creation, renaming and removal.
package field
