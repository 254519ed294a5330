// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dhttest is meant to be used to test drivers of single-wire
// humidity sensors without hardware.
//
// Sensor simulates the sensor side of the data line on a virtual clock. The
// clock only advances through DelayMicroseconds, so a pulse of n µs is seen
// by a polling loop as exactly n polls.
package dhttest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/dht/common"
	"github.com/GermanBionicSystems/dht/dht"
	"periph.io/x/conn/v3/gpio"
)

// Pulse is a period during which the sensor holds the line at Level.
type Pulse struct {
	Level  gpio.Level
	Micros uint32
}

// Edge records the host driving the line.
type Edge struct {
	Level gpio.Level
	// At is the virtual time in µs.
	At uint64
}

// Nominal pulse widths from the datasheets.
const (
	AckMicros  = 80
	LowMicros  = 50
	ZeroMicros = 26
	OneMicros  = 70
)

// NewFrame returns the frame carrying data with its checksum appended.
func NewFrame(data [4]byte) dht.Frame {
	return dht.Frame{data[0], data[1], data[2], data[3], common.Sum8(data[:])}
}

// Sensor is a simulated sensor implementing dht.Line and dht.Delayer.
//
// Once the host held the line low for at least MinStartHold and released it,
// the first read starts the response: the acknowledge, the frame and a final
// low pulse. The pull-up keeps the line high otherwise.
type Sensor struct {
	sync.Mutex

	// Frame is sent on every response.
	Frame dht.Frame
	// MinStartHold is the shortest start signal the sensor answers to, in µs.
	MinStartHold uint32
	// ZeroWidth and OneWidth are the high pulse widths encoding a bit. 0 means
	// ZeroMicros and OneMicros.
	ZeroWidth uint32
	OneWidth  uint32
	// Absent makes the sensor never answer.
	Absent bool
	// OutErr and ReadErr are returned by SetHigh/SetLow and IsHigh/IsLow.
	OutErr  error
	ReadErr error

	// Edges lists every level driven by the host.
	Edges []Edge
	// Now is the virtual clock in µs.
	Now uint64
	// Responses counts the start signals answered.
	Responses int

	driving  bool
	level    gpio.Level
	lowAt    uint64
	armed    bool
	replying bool
	start    uint64
	pulses   []Pulse
}

// SetHigh implements dht.Line.
func (s *Sensor) SetHigh() error {
	s.Lock()
	defer s.Unlock()
	if s.OutErr != nil {
		return s.OutErr
	}
	if s.driving && s.level == gpio.Low && !s.Absent && s.Now-s.lowAt >= uint64(s.MinStartHold) {
		s.armed = true
	}
	s.drive(gpio.High)
	return nil
}

// SetLow implements dht.Line.
func (s *Sensor) SetLow() error {
	s.Lock()
	defer s.Unlock()
	if s.OutErr != nil {
		return s.OutErr
	}
	s.lowAt = s.Now
	s.armed = false
	s.replying = false
	s.drive(gpio.Low)
	return nil
}

// IsHigh implements dht.Line.
func (s *Sensor) IsHigh() (bool, error) {
	l, err := s.read()
	return l == gpio.High, err
}

// IsLow implements dht.Line.
func (s *Sensor) IsLow() (bool, error) {
	l, err := s.read()
	return l == gpio.Low, err
}

// DelayMicroseconds implements dht.Delayer by advancing the virtual clock.
func (s *Sensor) DelayMicroseconds(us uint32) {
	s.Lock()
	defer s.Unlock()
	s.Now += uint64(us)
}

// Pulses returns the waveform the sensor sends in response to a start signal.
func (s *Sensor) Pulses() []Pulse {
	zero, one := s.ZeroWidth, s.OneWidth
	if zero == 0 {
		zero = ZeroMicros
	}
	if one == 0 {
		one = OneMicros
	}
	p := make([]Pulse, 0, 2+2*8*len(s.Frame)+1)
	p = append(p, Pulse{gpio.Low, AckMicros}, Pulse{gpio.High, AckMicros})
	for _, b := range s.Frame {
		for i := 7; i >= 0; i-- {
			w := zero
			if b&(1<<i) != 0 {
				w = one
			}
			p = append(p, Pulse{gpio.Low, LowMicros}, Pulse{gpio.High, w})
		}
	}
	// The trailing low ends the last bit before the line is released.
	return append(p, Pulse{gpio.Low, LowMicros})
}

func (s *Sensor) String() string {
	return fmt.Sprintf("dhttest(%#x)", s.Frame[:])
}

func (s *Sensor) drive(l gpio.Level) {
	s.driving = true
	s.level = l
	s.Edges = append(s.Edges, Edge{Level: l, At: s.Now})
}

func (s *Sensor) read() (gpio.Level, error) {
	s.Lock()
	defer s.Unlock()
	if s.ReadErr != nil {
		return gpio.Low, s.ReadErr
	}
	// Reading releases the line.
	s.driving = false
	if s.armed {
		s.armed = false
		s.replying = true
		s.start = s.Now
		s.pulses = s.Pulses()
		s.Responses++
	}
	if !s.replying {
		return gpio.High, nil
	}
	elapsed := s.Now - s.start
	for _, p := range s.pulses {
		if elapsed < uint64(p.Micros) {
			return p.Level, nil
		}
		elapsed -= uint64(p.Micros)
	}
	s.replying = false
	return gpio.High, nil
}

// ErrStuck is the read error of a Stuck sensor.
var ErrStuck = errors.New("dhttest: line stuck")

// Stuck returns a Sensor whose line reads fail, as a faulty pin driver would.
func Stuck() *Sensor {
	return &Sensor{ReadErr: ErrStuck}
}

var _ dht.Line = &Sensor{}
var _ dht.Delayer = &Sensor{}
