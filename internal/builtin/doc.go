// Package builtin provides the leaf device kinds shipped with the web device
// core and builds a tree from the devices section of the configuration.
//
// Kinds:
//   - MessageSensor shows a text message inline on the root page.
//   - ConfigurableSensor is a MessageSensor whose message and name are set
//     from one form.
//   - ToggleControl is an ON/OFF switch served inside a frame.
//   - BasicDevice is a plain device carrying the configuration services, for
//     services added by code.
package builtin
