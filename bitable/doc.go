/*
Package bitable contains the wire model shared by every other package of the
toolkit: the response envelope used by all Bitable endpoints, record and
search request/response payloads, table and field administration payloads,
endpoint path templates and the error type carrying the stable error codes.

The package has no behavior beyond JSON mapping and error construction; the
interesting logic lives in schema, mapper, query, token and the service
packages built on top of it.
*/
package bitable
