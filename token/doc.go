/*
Package token caches tenant access tokens per application credential pair.

A Cache sits between callers and the auth endpoint: concurrent requests for
the same credential pair share a single fetch, and fetched tokens are stored
with a lifetime shortened by a safety buffer so a cached token is never
handed out moments before the server expires it. The backing Store is
pluggable; an in-process store is the default and a Redis store is available
for processes that share credentials.
*/
package token
