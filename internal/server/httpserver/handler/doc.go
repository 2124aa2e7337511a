// Package handler implements the admin HTTP endpoints.
//
//   - session.go: session create, read, end and revoke
//   - claim.go: claim create, read and revoke
//   - admin.go: node status
//   - health.go: liveness and readiness
//
// Responses use the Response envelope; errors carry the AAA-* code of the
// underlying domain error.
package handler
