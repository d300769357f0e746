/*
Package mapper translates between typed entities and the loosely typed field
maps carried by Bitable records.

Writing (Fields) flattens an entity into a remote field map following the
schema package's mapping rules: the identity field is excluded, nil values are
skipped and date/time values become epoch milliseconds. Hydration (Entity,
Entities) rebuilds entities from returned records, flattening the rich value
shapes the store uses for link/person/option fields and tolerating per-field
mismatches: a bad field yields a diagnostic, not a failed record.
*/
package mapper
