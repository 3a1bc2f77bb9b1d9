// Package render builds the HTML pages served by the device tree.
//
// Pages are written into a Buffer with a fixed capacity. A write that does
// not fit is cut short rather than grown, and the buffer remembers that it
// truncated. Header reserves room for the closing markup so that a full
// page is still well formed after Tail.
//
// The fragments here (buttons, frames, forms) carry markup only. Callers
// supply paths and labels; nothing in this package knows about devices.
package render
