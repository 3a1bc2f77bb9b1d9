package device

import "errors"

// Domain-specific errors for tree operations.
var (
	// ErrCapacityExceeded is returned when a device already holds MaxServices
	// services, or a root already holds MaxDevices devices. The node is not added.
	ErrCapacityExceeded = errors.New("device: capacity exceeded")

	// ErrInvalidIdentifier is returned when an identifier is not a 36
	// character hyphenated hex string. The previous identifier is kept.
	ErrInvalidIdentifier = errors.New("device: invalid identifier")

	// ErrAlreadyAttached is returned when a node that already has a parent
	// is added again. Attachment is permanent.
	ErrAlreadyAttached = errors.New("device: node already attached")

	// ErrCycle is returned when a node is added below itself or below one
	// of its own descendants.
	ErrCycle = errors.New("device: node would contain itself")

	// ErrNilNode is returned when a nil node is added.
	ErrNilNode = errors.New("device: nil node")

	// ErrInvalidTarget is returned when a target contains '/'.
	ErrInvalidTarget = errors.New("device: invalid target")

	// ErrTargetLocked is returned when a target is changed after the tree
	// has been wired to a dispatcher.
	ErrTargetLocked = errors.New("device: target locked after setup")
)
