// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dhttest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

func TestNewFrame(t *testing.T) {
	f := NewFrame([4]byte{0x02, 0x8c, 0x80, 0x32})
	if f[4] != 0x40 {
		t.Fatalf("checksum 0x%x", f[4])
	}
	if !f.Valid() {
		t.Fatal("frame should be valid")
	}
}

func TestPulses(t *testing.T) {
	s := Sensor{Frame: NewFrame([4]byte{0x80, 0, 0, 0})}
	p := s.Pulses()
	if len(p) != 83 {
		t.Fatalf("got %d pulses", len(p))
	}
	want := []Pulse{
		{gpio.Low, AckMicros}, {gpio.High, AckMicros},
		{gpio.Low, LowMicros}, {gpio.High, OneMicros},
		{gpio.Low, LowMicros}, {gpio.High, ZeroMicros},
	}
	if diff := cmp.Diff(want, p[:6]); diff != "" {
		t.Fatalf("pulses mismatch (-want +got):\n%s", diff)
	}
	if last := p[len(p)-1]; last != (Pulse{gpio.Low, LowMicros}) {
		t.Fatalf("last pulse %v", last)
	}
}

func TestSensor_response(t *testing.T) {
	s := Sensor{MinStartHold: 1000, Frame: NewFrame([4]byte{})}
	if err := s.SetLow(); err != nil {
		t.Fatal(err)
	}
	s.DelayMicroseconds(1000)
	if err := s.SetHigh(); err != nil {
		t.Fatal(err)
	}
	s.DelayMicroseconds(40)
	if l, _ := s.IsLow(); !l {
		t.Fatal("expected acknowledge")
	}
	s.DelayMicroseconds(AckMicros)
	if h, _ := s.IsHigh(); !h {
		t.Fatal("expected acknowledge high")
	}
	if s.Responses != 1 {
		t.Fatalf("responses %d", s.Responses)
	}
	want := []Edge{{gpio.Low, 0}, {gpio.High, 1000}}
	if diff := cmp.Diff(want, s.Edges); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
	// Past the end of the waveform the pull-up wins.
	s.DelayMicroseconds(10_000)
	if h, _ := s.IsHigh(); !h {
		t.Fatal("expected idle high")
	}
}

func TestSensor_shortStart(t *testing.T) {
	s := Sensor{MinStartHold: 18_000}
	_ = s.SetLow()
	s.DelayMicroseconds(1_100)
	_ = s.SetHigh()
	if h, _ := s.IsHigh(); !h || s.Responses != 0 {
		t.Fatal("sensor answered a short start signal")
	}
}

func TestStuck(t *testing.T) {
	s := Stuck()
	if _, err := s.IsHigh(); !errors.Is(err, ErrStuck) {
		t.Fatalf("got %v", err)
	}
}
