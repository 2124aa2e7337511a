// Package connection talks to a running aaamesh-node over its admin HTTP
// API.
package connection
