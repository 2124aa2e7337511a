// Package httpserver serves the aaamesh-node admin HTTP API.
//
// Routes:
//
//	GET  /health, /ready                  liveness and readiness, never authenticated
//	GET  /metrics                         Prometheus exposition
//	GET  /admin/v1/status                 node identity, peers and mirror size
//	POST /sessions                        create and replicate a session
//	GET  /sessions/{id}                   read the mirrored session
//	POST /sessions/{id}/end               mark a session inactive everywhere
//	POST /sessions/{id}/revoke            delete a session everywhere
//	GET  /users/{user_id}/sessions        list a user's sessions
//	POST /users/{user_id}/sessions/revoke delete all of a user's sessions
//	POST /claims                          create and replicate a claim
//	GET  /claims/{id}                     read the mirrored claim
//	POST /claims/{id}/revoke              delete a claim everywhere
//
// Every route except /health and /ready requires the configured bearer
// token, if any.
package httpserver
