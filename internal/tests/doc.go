// Package tests holds multi-node integration tests that run complete
// aaamesh daemons on loopback.
package tests
