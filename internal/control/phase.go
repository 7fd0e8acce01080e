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

package control

import "math"

const (
	twoPi = 2 * math.Pi

	// PhaseStep is the per-cycle control phase advance; one full
	// volume oscillation takes 1000 cycles.
	PhaseStep = twoPi / 1000.0
)

// Envelope is the per-port control phase accumulator, independent of
// the audio oscillator phase.
type Envelope struct {
	phase float64
}

// Value returns the current volume, a smooth oscillation within 0..1.
func (e *Envelope) Value() float32 {
	return float32(math.Sin(e.phase)/2.0 + 0.5)
}

// Advance steps the control phase by PhaseStep, wrapping at 2π.
func (e *Envelope) Advance() {
	e.phase += PhaseStep
	if e.phase >= twoPi {
		e.phase -= twoPi
	}
}

// Phase returns the accumulator value, always in [0, 2π).
func (e *Envelope) Phase() float64 {
	return e.phase
}
