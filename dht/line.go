// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3/cpu"
)

// Line is the single data wire shared by the host and the sensor.
//
// The host drives it with SetHigh and SetLow. Reading the level hands the
// line over to the sensor; an implementation backed by a real pin switches
// to input on the first read after driving it.
type Line interface {
	SetHigh() error
	SetLow() error
	IsHigh() (bool, error)
	IsLow() (bool, error)
}

// Delayer busy-waits. It must not yield to a scheduler; pulse widths are
// measured by counting 1µs waits.
type Delayer interface {
	DelayMicroseconds(us uint32)
}

// PinLine adapts a periph GPIO pin to a Line.
type PinLine struct {
	p     gpio.PinIO
	input bool
}

// NewLine returns a Line driving p.
func NewLine(p gpio.PinIO) *PinLine {
	return &PinLine{p: p}
}

// SetHigh drives the pin high.
func (l *PinLine) SetHigh() error {
	return l.out(gpio.High)
}

// SetLow drives the pin low.
func (l *PinLine) SetLow() error {
	return l.out(gpio.Low)
}

// IsHigh releases the line if needed and reports whether it reads high.
func (l *PinLine) IsHigh() (bool, error) {
	level, err := l.read()
	return err == nil && level == gpio.High, err
}

// IsLow releases the line if needed and reports whether it reads low.
func (l *PinLine) IsLow() (bool, error) {
	level, err := l.read()
	return err == nil && level == gpio.Low, err
}

func (l *PinLine) String() string {
	return l.p.String()
}

func (l *PinLine) out(level gpio.Level) error {
	if err := l.p.Out(level); err != nil {
		return err
	}
	l.input = false
	return nil
}

func (l *PinLine) read() (gpio.Level, error) {
	if !l.input {
		// The sensor drives the line from here on; the pull-up keeps it high
		// between pulses.
		if err := l.p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return gpio.Low, err
		}
		l.input = true
	}
	return l.p.Read(), nil
}

// SpinDelay is a Delayer spinning the CPU. time.Sleep is far too coarse for
// microsecond pulses.
type SpinDelay struct{}

// DelayMicroseconds implements Delayer.
func (SpinDelay) DelayMicroseconds(us uint32) {
	cpu.Nanospin(time.Duration(us) * time.Microsecond)
}

var _ Line = &PinLine{}
var _ Delayer = SpinDelay{}
