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

// Package param models the negotiable parameter space of a node and its
// ports: parameter categories, per-category capability descriptors, the
// typed payloads exchanged during negotiation, and the filters a caller
// can apply while enumerating candidates.
package param

// Category identifies a negotiable parameter class.
type Category uint32

const (
	CatInvalid Category = iota

	// Node-level categories
	CatPropInfo
	CatProps

	// Port-level categories (EnumFormat and Format also exist node-level)
	CatEnumFormat
	CatFormat
	CatBuffers
	CatMeta
	CatIO
	CatLatency
	CatTag
)

// String returns the category name used in log output.
func (c Category) String() string {
	switch c {
	case CatPropInfo:
		return "PropInfo"
	case CatProps:
		return "Props"
	case CatEnumFormat:
		return "EnumFormat"
	case CatFormat:
		return "Format"
	case CatBuffers:
		return "Buffers"
	case CatMeta:
		return "Meta"
	case CatIO:
		return "IO"
	case CatLatency:
		return "Latency"
	case CatTag:
		return "Tag"
	default:
		return "Invalid"
	}
}

// Flags describe how a parameter category may currently be accessed.
type Flags uint32

const (
	// FlagReadable means the category can be enumerated.
	FlagReadable Flags = 1 << iota
	// FlagWritable means the category accepts set operations.
	FlagWritable
	// FlagSerial toggles whenever the stored value changed since the
	// last emission, letting observers detect value changes even when
	// the other flags are stable.
	FlagSerial
)

// FlagReadWrite is the common readable+writable combination.
const FlagReadWrite = FlagReadable | FlagWritable

// Descriptor is the live registry entry for one parameter category.
// Touched counts value changes not yet observed; it is consumed by the
// change-notification path.
type Descriptor struct {
	Category Category
	Flags    Flags
	Touched  uint32
}

// Touch records a value change that observers have not seen yet.
func (d *Descriptor) Touch() {
	d.Touched++
}

// ConsumeSerial flips the serial flag and resets the touched counter if
// the value changed since the previous emission. It reports whether a
// flip happened.
func (d *Descriptor) ConsumeSerial() bool {
	if d.Touched == 0 {
		return false
	}
	d.Flags ^= FlagSerial
	d.Touched = 0
	return true
}
