// Package table administers the tables of a Bitable app: creation with an
// initial field layout, renaming, listing and removal.
package table
