// Package device implements the device tree served as web pages.
//
// A tree is a RootDevice holding up to MaxDevices child devices. Every
// device, the root included, holds up to MaxServices services. Each node
// has a short target and derives its URL path from its ancestors:
//
//	/root                  the root device page
//	/root/lamp             a child device page
//	/root/lamp/service0    a service of that device
//
// Paths are computed from the parent chain on every call and never cached.
//
// Wiring: RootDevice.Setup registers every node's path with a Dispatcher.
// Nodes added after Setup are registered immediately, so the tree may grow
// while it is being served.
//
// Kinds: each node carries a *Kind. Kinds form a single-inheritance chain
// (a Sensor is a Device is an Object); IsKind and As test and narrow a node
// by kind without reflection.
//
// Thread Safety: the tree is not safe for concurrent use. Callers serialise
// request handling and tree mutation, as web.Server does.
package device
