// Package cluster replicates typed objects between peer nodes over TCP.
//
// A Node listens on one port and may also dial other nodes. Every live
// connection, inbound or outbound, is a peer. WriteObject, UpdateObject
// and DeleteObject encode an object once with a codec.Registry and send
// the resulting frame to all peers. Frames read from a peer are decoded
// and handed to the node's Listener together with their OpCode.
//
// There is no acknowledgement, retry or ordering across connections.
// Frames on one connection arrive in the order they were sent.
//
// Usage:
//
//	reg := codec.NewRegistry()
//	codec.RegisterFuncs(reg, encodeSession, decodeSession)
//
//	node, err := cluster.Listen(cluster.DefaultConfig(), reg,
//	    cluster.ListenerFunc(func(obj any, op cluster.OpCode) {
//	        // apply obj
//	    }))
//	if err != nil {
//	    return err
//	}
//	defer node.Shutdown(context.Background())
//
//	if _, err := node.ConnectTo(ctx, "10.0.0.2", cluster.DefaultPort); err != nil {
//	    return err
//	}
//	err = node.WriteObject(session)
package cluster
