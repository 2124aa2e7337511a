// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("cluster", node.Shutdown)
//	err := h.Wait(ctx) // returns after SIGINT, SIGTERM, Trigger or ctx done
package shutdown
