// Package api adapts HTTP requests to the attendance and user services.
// Handlers decode and validate JSON bodies, call a service, and map the
// result or error to a JSON response. Errors are translated to status
// codes in one place, MapErrorToStatusCode, so every endpoint reports
// the same failure the same way.
package api
