// Package service connects the AAA domain to the cluster transport.
//
// RegisterCodecs teaches a codec.Registry the wire layout of Session and
// Claim. Mirror is the cluster.Listener that keeps the replicated view of
// every session and claim. Publisher applies local changes to the mirror
// and broadcasts them to peers.
package service
