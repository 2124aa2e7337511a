// Package daemon assembles a running aaamesh node from its configuration:
// the cluster node, the session mirror and publisher, the admin HTTP
// server with metrics, peer dialing and the expiry sweep.
package daemon
