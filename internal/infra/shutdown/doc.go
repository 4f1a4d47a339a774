// Package shutdown coordinates graceful process termination.
//
// Components register hooks as they start; Wait blocks until SIGINT,
// SIGTERM or context cancellation, then runs the hooks newest first under
// a shared deadline:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("store", store.Close)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
