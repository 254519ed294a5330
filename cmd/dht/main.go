// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht reads a DHT11 or DHT22 sensor wired to a GPIO pin and prints the
// measurements.
//
// The driver never retries, so failed reads are retried here after the
// sensor's minimum read interval.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/GermanBionicSystems/dht/dht"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/host/v3"
)

// reader is the part of *dht.Dev used by the read loop.
type reader interface {
	Read() (dht.Reading, error)
	Type() dht.SensorType
}

// readRetry reads r up to attempts times, waiting the sensor's minimum read
// interval after each failure. It returns the last error.
func readRetry(r reader, attempts int, sleep func(time.Duration)) (dht.Reading, error) {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		var reading dht.Reading
		if reading, err = r.Read(); err == nil {
			return reading, nil
		}
		log.Printf("attempt %d/%d: %v", i+1, attempts, err)
		if i+1 < attempts {
			sleep(r.Type().MinReadInterval())
		}
	}
	return dht.Reading{}, err
}

// printer formats readings, optionally prefixed with a colour swatch.
type printer struct {
	w          io.Writer
	color      bool
	fahrenheit bool
}

// swatch maps -10°C to blue and 40°C to red.
func swatch(celsius float64) color.NRGBA {
	f := (celsius + 10) / 50
	f = min(max(f, 0), 1)
	return color.NRGBA{R: uint8(255 * f), G: 32, B: uint8(255 * (1 - f)), A: 255}
}

func (p *printer) print(r dht.Reading) error {
	t, unit := r.Temperature, "°C"
	if p.fahrenheit {
		t, unit = dht.CelsiusToFahrenheit(t), "°F"
	}
	prefix := ""
	if p.color {
		prefix = ansi256.Default.Block(swatch(r.Temperature)) + "\033[0m "
	}
	_, err := fmt.Fprintf(p.w, "%s%.1f%s %.1f%%rH\n", prefix, t, unit, r.Humidity)
	return err
}

func mainImpl() error {
	pin := flag.String("p", "GPIO4", "GPIO pin the sensor data line is wired to")
	sensor := flag.String("t", "dht22", "sensor type: dht11, dht22 or am2302")
	interval := flag.Duration("i", 5*time.Second, "interval between readings")
	count := flag.Int("n", 1, "number of readings, 0 for forever")
	retries := flag.Int("r", 5, "read attempts per reading")
	fahrenheit := flag.Bool("f", false, "print temperatures in Fahrenheit")
	colorMode := flag.String("color", "auto", "colour swatch: auto, always or never")
	maxCycles := flag.Uint("max-cycles", uint(dht.DefaultMaxCycles), "polls before a pulse times out")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	t, err := dht.ParseSensorType(*sensor)
	if err != nil {
		return err
	}
	if *interval < t.MinReadInterval() {
		*interval = t.MinReadInterval()
	}
	p := &printer{w: os.Stdout, fahrenheit: *fahrenheit}
	switch *colorMode {
	case "always":
		p.color = true
	case "auto":
		p.color = isatty.IsTerminal(os.Stdout.Fd())
	case "never":
	default:
		return fmt.Errorf("invalid -color %q", *colorMode)
	}
	if p.color {
		p.w = colorable.NewColorableStdout()
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	opts := dht.DefaultOpts
	opts.MaxCycles = uint32(*maxCycles)
	d, err := dht.NewByName(*pin, t, &opts)
	if err != nil {
		return err
	}
	if err := d.Begin(); err != nil {
		return err
	}
	// The sensor needs its quiet period after power up too.
	time.Sleep(t.MinReadInterval())

	for i := 0; *count == 0 || i < *count; i++ {
		if i != 0 {
			time.Sleep(*interval)
		}
		r, err := readRetry(d, *retries, time.Sleep)
		if err != nil {
			return err
		}
		if err := p.print(r); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht: %s.\n", err)
		os.Exit(1)
	}
}
