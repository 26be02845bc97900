// Package api provides the HTTP handlers of the task and library endpoints,
// their request and response bodies, and the mapping from service errors to
// status codes. Routing and middleware assembly live in cmd/server.
package api
