// Package web serves the device tree over HTTP.
//
// Tree handlers are registered by path at any time, including after the
// listener is up, and are dispatched one at a time so device code never sees
// concurrent requests. Alongside the tree the server exposes a small JSON
// API (health, registered routes, tree snapshot) and a WebSocket stream of
// device events.
//
// Lifecycle:
//
//	srv, err := web.New(deps)
//	srv.Start(ctx)
//	defer srv.Close()
package web
