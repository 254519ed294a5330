// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a pulse did not end within Opts.MaxCycles
	// iterations. The sensor is missing, miswired or out of sync.
	ErrTimeout = errors.New("dht: timeout waiting for pulse")
	// ErrChecksumMismatch is returned when a frame was received but its
	// checksum byte does not match the data bytes.
	ErrChecksumMismatch = errors.New("dht: checksum mismatch")
	// ErrInvalidSensorType is returned for a SensorType that is not one of
	// the declared constants.
	ErrInvalidSensorType = errors.New("dht: invalid sensor type")
	// ErrIO is returned when the underlying pin could not be driven or read.
	// The platform error is wrapped alongside it.
	ErrIO = errors.New("dht: pin i/o error")
	// ErrNotImplemented is returned by SenseContinuous.
	ErrNotImplemented = errors.New("dht: not implemented")
)

func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
