/*
Package transport is the HTTP layer of the toolkit: it signs requests with an
app access token, sends JSON bodies and unwraps the response envelope that
every Bitable endpoint shares. Call is generic over the envelope payload so
callers receive typed data without per-endpoint decode code.
*/
package transport
