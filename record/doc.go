/*
Package record exposes the record operations of a Bitable table: single and
batch writes, deletion, retrieval and filtered search.

Service methods speak raw field maps and wire DTOs. The package-level generic
functions (Create, Get, Save, Query and friends) layer the typed surface on
top: they resolve the target table from the entity type, translate field
names through its schema metadata and hydrate returned records back into
entities.
*/
package record
