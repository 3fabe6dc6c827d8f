// Package api contains the HTTP handlers, request/response payloads and
// error mapping for the REST surface. Handlers decode and validate input,
// consult the authorization policy, call the stores and translate errors
// into sanitized JSON responses.
package api
