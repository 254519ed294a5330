// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
	"runtime/debug"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultMaxCycles caps the number of 1µs polls spent on a single pulse.
	// The longest valid pulse is 80µs; tune Opts.MaxCycles for slow hosts.
	DefaultMaxCycles uint32 = 1_000_000

	// bitThreshold is the high pulse width, in polls, above which a bit is 1.
	// A 0 lasts 26-28µs and a 1 lasts 70µs.
	bitThreshold = 50

	// Line settle time after power up, and the release time between the end
	// of the start signal and the sensor's acknowledge.
	settleMicros  = 20_000
	releaseMicros = 40

	frameBits = 40
)

// Opts holds the configuration options for the device.
type Opts struct {
	// MaxCycles is the number of polls after which a pulse is abandoned with
	// ErrTimeout. 0 means DefaultMaxCycles.
	MaxCycles uint32
	// PauseGC disables the garbage collector while the start signal is sent
	// and the frame captured, so a collection cannot stretch a pulse.
	PauseGC bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	MaxCycles: DefaultMaxCycles,
	PauseGC:   true,
}

// Dev is a handle to a DHT11 or DHT22 sensor.
//
// Dev keeps no state between reads and holds no lock. It owns its Line and
// Delayer; callers reading from several goroutines must serialize.
type Dev struct {
	line  Line
	delay Delayer
	t     SensorType
	opts  Opts
}

// New returns a sensor on line, timed by delay. The Opts can be nil.
func New(line Line, delay Delayer, t SensorType, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{line: line, delay: delay, t: t, opts: *opts}
	if d.opts.MaxCycles == 0 {
		d.opts.MaxCycles = DefaultMaxCycles
	}
	return d
}

// NewGPIO returns a sensor attached to p, timed with SpinDelay.
func NewGPIO(p gpio.PinIO, t SensorType, opts *Opts) *Dev {
	return New(NewLine(p), SpinDelay{}, t, opts)
}

// NewByName looks up the pin in the gpioreg registry and returns a sensor
// attached to it. host.Init() must have been called.
func NewByName(name string, t SensorType, opts *Opts) (*Dev, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("dht: pin %q not found", name)
	}
	return NewGPIO(p, t, opts), nil
}

// Type returns the sensor type.
func (d *Dev) Type() SensorType {
	return d.t
}

// Begin pulls the line high and waits for it to settle. Call it once before
// the first Read; calling it again is harmless.
func (d *Dev) Begin() error {
	if err := d.line.SetHigh(); err != nil {
		return ioError(err)
	}
	d.delay.DelayMicroseconds(settleMicros)
	return nil
}

// Read wakes the sensor and returns its measurement.
//
// Read blocks for the whole exchange, typically under 5ms for a DHT22 and
// about 25ms for a DHT11. The sensor must not be read more than once per
// MinReadInterval; Read does not check this and does not retry.
func (d *Dev) Read() (Reading, error) {
	if !d.t.valid() {
		return Reading{}, ErrInvalidSensorType
	}
	f, err := d.capture()
	if err != nil {
		return Reading{}, err
	}
	if !f.Valid() {
		return Reading{}, ErrChecksumMismatch
	}
	return decode(d.t, f)
}

// capture sends the start signal and reads a frame.
func (d *Dev) capture() (Frame, error) {
	if d.opts.PauseGC {
		defer debug.SetGCPercent(debug.SetGCPercent(-1))
	}
	var f Frame
	if err := d.start(); err != nil {
		return f, err
	}

	// Acknowledge: 80µs low then 80µs high.
	if _, err := d.expectPulse(gpio.Low); err != nil {
		return f, err
	}
	if _, err := d.expectPulse(gpio.High); err != nil {
		return f, err
	}

	// Each bit is a 50µs low separator followed by a high pulse whose width
	// is the value.
	for i := 0; i < frameBits; i++ {
		if _, err := d.expectPulse(gpio.Low); err != nil {
			return f, err
		}
		width, err := d.expectPulse(gpio.High)
		if err != nil {
			return f, err
		}
		if width > bitThreshold {
			f[i/8] |= 1 << (7 - i%8)
		}
	}
	return f, nil
}

// start holds the line low long enough to wake the sensor, then releases it.
func (d *Dev) start() error {
	if err := d.line.SetLow(); err != nil {
		return ioError(err)
	}
	d.delay.DelayMicroseconds(d.t.StartHold())
	if err := d.line.SetHigh(); err != nil {
		return ioError(err)
	}
	d.delay.DelayMicroseconds(releaseMicros)
	return nil
}

// expectPulse returns the number of 1µs polls during which the line stayed
// at level.
func (d *Dev) expectPulse(level gpio.Level) (uint32, error) {
	var count uint32
	for {
		var at bool
		var err error
		if level == gpio.High {
			at, err = d.line.IsHigh()
		} else {
			at, err = d.line.IsLow()
		}
		if err != nil {
			return 0, ioError(err)
		}
		if !at {
			return count, nil
		}
		count++
		if count > d.opts.MaxCycles {
			return 0, ErrTimeout
		}
		d.delay.DelayMicroseconds(1)
	}
}

// Sense implements physic.SenseEnv. It performs a Read; Pressure is always 0.
func (d *Dev) Sense(env *physic.Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0
	r, err := d.Read()
	if err != nil {
		return err
	}
	*env = r.Env()
	return nil
}

// SenseContinuous is not supported; the driver is strictly synchronous. Call
// Sense from a loop paced by MinReadInterval instead.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	return nil, ErrNotImplemented
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(env *physic.Env) {
	env.Pressure = 0
	if d.t == DHT11 {
		env.Temperature = physic.Celsius
		env.Humidity = physic.PercentRH
		return
	}
	env.Temperature = physic.Celsius / 10
	env.Humidity = physic.MilliRH
}

// Halt implements conn.Resource. There is never anything in flight once Read
// returned.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%v}", d.t, d.line)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
