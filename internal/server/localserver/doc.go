// Package localserver serves the admin API on a Unix domain socket.
//
// Access is controlled by file permissions instead of a bearer token: the
// socket is created mode 0600, so only the node's user (and root) can
// connect. The CLI reaches it with --server unix:///path/to/socket.
package localserver
