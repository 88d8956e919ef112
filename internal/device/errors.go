package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist in the
	// roster.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDuplicateDevice is returned when building a roster with two
	// devices sharing an ID.
	ErrDuplicateDevice = errors.New("device: duplicate id")
)
