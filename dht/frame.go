// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
	"math"

	"github.com/GermanBionicSystems/dht/common"
	"periph.io/x/conn/v3/physic"
)

// Frame is the 40 bit payload sent by the sensor, most significant bit
// first. Bytes 0 and 1 hold the humidity, bytes 2 and 3 the temperature and
// byte 4 the checksum.
type Frame [5]byte

// Checksum returns the 8-bit sum of the four data bytes.
func (f Frame) Checksum() byte {
	return common.Sum8(f[:4])
}

// Valid reports whether the checksum byte matches the data bytes.
func (f Frame) Valid() bool {
	return f.Checksum() == f[4]
}

// Reading is a decoded measurement.
type Reading struct {
	// Temperature in degrees Celsius.
	Temperature float64
	// Humidity in percent relative humidity.
	Humidity float64
}

// Env converts the reading to periph units. Values are rounded to the tenth,
// the finest step either sensor reports.
func (r Reading) Env() physic.Env {
	t := physic.Temperature(math.Round(r.Temperature * 10))
	h := physic.RelativeHumidity(math.Round(r.Humidity * 10))
	return physic.Env{
		Temperature: physic.ZeroCelsius + (physic.Celsius/10)*t,
		Humidity:    h * physic.MilliRH,
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("%.1f°C %.1f%%rH", r.Temperature, r.Humidity)
}

// decode converts a frame to a reading. The checksum must have been checked
// already.
func decode(t SensorType, f Frame) (Reading, error) {
	var r Reading
	switch t {
	case DHT11:
		// Byte 1 and 3 are tenths. The DHT11 leaves them at zero but they are
		// passed through unclamped.
		r.Humidity = float64(f[0]) + float64(f[1])*0.1
		r.Temperature = float64(f[2]) + float64(f[3])*0.1
	case DHT22:
		r.Humidity = float64(uint16(f[0])<<8|uint16(f[1])) * 0.1
		// Sign and magnitude, not two's complement.
		r.Temperature = float64(uint16(f[2]&0x7f)<<8|uint16(f[3])) * 0.1
		if f[2]&0x80 != 0 {
			r.Temperature = -r.Temperature
		}
	default:
		return Reading{}, ErrInvalidSensorType
	}
	return r, nil
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}

// FahrenheitToCelsius converts degrees Fahrenheit to degrees Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}
