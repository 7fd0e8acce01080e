/*
 * This file is part of livemix (https://github.com/udoprog/livemix).
 * Copyright (C) 2026 the livemix authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

// Package gen generates deterministic sine audio. The oscillator is a
// pure function of (phase, rate, channels, encoding) aside from its own
// phase advance, which makes generated output bit-reproducible for a
// given configuration.
package gen

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/udoprog/livemix/internal/param"
)

const (
	// DefaultFreq is the tone frequency in Hz.
	DefaultFreq = 440.0
	// DefaultGain scales the sine amplitude.
	DefaultGain = 0.2

	twoPi = 2 * math.Pi
)

// Oscillator holds the per-port phase accumulator in radians. Phase
// advances by 2π·freq/rate per sample and wraps modulo 2π so the
// accumulator never grows without bound.
type Oscillator struct {
	Freq float64
	Gain float64

	phase float64
}

// New returns an oscillator with the given frequency and gain; zero
// values fall back to the defaults.
func New(freq, gain float64) Oscillator {
	if freq == 0 {
		freq = DefaultFreq
	}
	if gain == 0 {
		gain = DefaultGain
	}
	return Oscillator{Freq: freq, Gain: gain}
}

// Phase returns the current accumulator value, always in [0, 2π).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

func (o *Oscillator) next(rate uint32) float64 {
	o.phase += twoPi * o.Freq / float64(rate)
	if o.phase >= twoPi {
		o.phase -= twoPi
	}
	return math.Sin(o.phase) * o.Gain
}

// Fill writes sine samples over the whole of dst in the given encoding.
// The same scalar value is replicated across all channels. dst must be
// a whole number of frames (or samples, for planar encodings).
func (o *Oscillator) Fill(dst []byte, enc param.Encoding, rate, channels uint32) error {
	if rate == 0 || channels == 0 {
		return fmt.Errorf("fill: rate and channels must be non-zero")
	}

	switch enc {
	case param.EncodingS16:
		o.fillS16(dst, rate, channels)
	case param.EncodingF32:
		o.fillF32(dst, rate, channels)
	case param.EncodingF32P:
		o.fillF32Planar(dst, rate)
	default:
		return fmt.Errorf("fill: unsupported encoding %s", enc)
	}
	return nil
}

func (o *Oscillator) fillS16(dst []byte, rate, channels uint32) {
	frame := 2 * int(channels)
	n := len(dst) / frame
	for i := 0; i < n; i++ {
		val := uint16(int16(o.next(rate) * 32767.0))
		for c := 0; c < int(channels); c++ {
			binary.LittleEndian.PutUint16(dst[i*frame+c*2:], val)
		}
	}
}

func (o *Oscillator) fillF32(dst []byte, rate, channels uint32) {
	frame := 4 * int(channels)
	n := len(dst) / frame
	for i := 0; i < n; i++ {
		val := math.Float32bits(float32(o.next(rate)))
		for c := 0; c < int(channels); c++ {
			binary.LittleEndian.PutUint32(dst[i*frame+c*4:], val)
		}
	}
}

// fillF32Planar fills one plane of mono samples; each plane of a planar
// port carries a single channel.
func (o *Oscillator) fillF32Planar(dst []byte, rate uint32) {
	n := len(dst) / 4
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(float32(o.next(rate))))
	}
}
