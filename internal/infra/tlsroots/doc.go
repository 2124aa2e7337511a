// Package tlsroots provides TLS material for the admin API.
//
// A Pool holds the CA certificates a client trusts. A Watcher serves a
// node's certificate and key pair and reloads them when the files change
// on disk, so certificates can be rotated without a restart.
package tlsroots
