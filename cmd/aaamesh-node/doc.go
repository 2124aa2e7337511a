// Package main provides the entry point for aaamesh-node.
//
// One binary serves both roles:
//
//	aaamesh-node run --config /etc/aaamesh/node.yaml
//	aaamesh-node --server 10.0.0.1:9110 status
//	aaamesh-node session revoke-user alice
//
// run starts a replication node with its admin HTTP API; every other
// command is a client of that API.
package main
