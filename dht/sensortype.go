// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
	"strings"
	"time"
)

// SensorType selects the start signal length and the frame decoding.
type SensorType int

const (
	// DHT11 reports whole degrees and percent with a 0 to 50°C range.
	DHT11 SensorType = iota
	// DHT22 reports tenths with a -40 to 80°C range.
	DHT22
	// AM2302 is the wired version of the DHT22.
	AM2302 = DHT22
)

func (t SensorType) String() string {
	switch t {
	case DHT11:
		return "DHT11"
	case DHT22:
		return "DHT22"
	default:
		return fmt.Sprintf("SensorType(%d)", int(t))
	}
}

// MinReadInterval is the minimum time the sensor needs between two reads.
func (t SensorType) MinReadInterval() time.Duration {
	return 2 * time.Second
}

// StartHold returns how long, in microseconds, the host holds the line low to
// wake the sensor. The DHT11 pull-up recovers slower and needs at least 18ms.
func (t SensorType) StartHold() uint32 {
	switch t {
	case DHT11:
		return 20_000
	case DHT22:
		return 1_100
	default:
		return 0
	}
}

func (t SensorType) valid() bool {
	return t == DHT11 || t == DHT22
}

// ParseSensorType returns the SensorType named by s. The match is case
// insensitive and accepts "dht11", "dht22" and "am2302".
func ParseSensorType(s string) (SensorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dht11":
		return DHT11, nil
	case "dht22", "am2302":
		return DHT22, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSensorType, s)
}
