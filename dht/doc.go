// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht controls the Aosong DHT11 and DHT22 (AM2302) humidity and
// temperature sensors. Both parts talk over a single bidirectional data line
// using a pulse-width encoded protocol, so the driver bit-bangs the line
// through a GPIO pin and a microsecond busy-wait.
//
// A read emits the start signal, measures the sensor's acknowledge pulses and
// the 40 data bits, validates the additive checksum and converts the frame to
// degrees Celsius and percent relative humidity. The driver never retries;
// the sensor must be left alone for at least SensorType.MinReadInterval()
// between reads.
//
// dht.Dev implements physic.SenseEnv. Pressure is never set.
//
// # Datasheets
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
//
// https://cdn-shop.adafruit.com/datasheets/Digital+humidity+and+temperature+sensor+AM2302.pdf
package dht
