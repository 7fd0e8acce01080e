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

package param

import (
	"fmt"
	"math"
)

// Encoding identifies a sample encoding.
type Encoding uint32

const (
	EncodingUnknown Encoding = iota
	// EncodingS16 is 16-bit signed integer, interleaved.
	EncodingS16
	// EncodingS16P is 16-bit signed integer, planar.
	EncodingS16P
	// EncodingF32 is 32-bit float, interleaved.
	EncodingF32
	// EncodingF32P is 32-bit float, planar.
	EncodingF32P
)

// SampleBytes returns the width of a single sample in bytes.
func (e Encoding) SampleBytes() uint32 {
	switch e {
	case EncodingS16, EncodingS16P:
		return 2
	case EncodingF32, EncodingF32P:
		return 4
	default:
		return 0
	}
}

// Planar reports whether each channel occupies its own data plane.
func (e Encoding) Planar() bool {
	return e == EncodingS16P || e == EncodingF32P
}

func (e Encoding) String() string {
	switch e {
	case EncodingS16:
		return "S16"
	case EncodingS16P:
		return "S16P"
	case EncodingF32:
		return "F32"
	case EncodingF32P:
		return "F32P"
	default:
		return "unknown"
	}
}

// Range is a default value plus an inclusive min/max constraint.
type Range struct {
	Def uint32 `json:"def"`
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v uint32) bool {
	return v >= r.Min && v <= r.Max
}

// Overlaps reports whether the two ranges share at least one value.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Payload is a typed parameter value exchanged during negotiation.
type Payload interface {
	Category() Category
}

// MediaKind distinguishes the media class a format applies to.
type MediaKind uint32

const (
	MediaAudio MediaKind = iota + 1
)

// EnumFormat describes the space of formats a port can accept: an
// enumerable set of encodings plus channel count and sample rate
// constraints.
type EnumFormat struct {
	Media     MediaKind  `json:"media"`
	Encodings []Encoding `json:"encodings"`
	Channels  Range      `json:"channels"`
	Rate      Range      `json:"rate"`
}

func (EnumFormat) Category() Category { return CatEnumFormat }

// Format is a fully negotiated audio format, every field concrete.
type Format struct {
	Encoding Encoding `json:"encoding"`
	Rate     uint32   `json:"rate"`
	Channels uint32   `json:"channels"`
}

func (Format) Category() Category { return CatFormat }

// Validate rejects formats with unknown encodings or zero rate/channels.
func (f Format) Validate() error {
	if f.Encoding.SampleBytes() == 0 {
		return fmt.Errorf("unknown encoding %d", uint32(f.Encoding))
	}
	if f.Rate == 0 {
		return fmt.Errorf("sample rate must be non-zero")
	}
	if f.Channels == 0 {
		return fmt.Errorf("channel count must be non-zero")
	}
	return nil
}

// FrameBytes returns the byte width of one interleaved frame.
func (f Format) FrameBytes() uint32 {
	return f.Encoding.SampleBytes() * f.Channels
}

// Buffers constrains the buffer layout a port can work with.
type Buffers struct {
	Buffers Range  `json:"buffers"`
	Blocks  uint32 `json:"blocks"`
	Size    Range  `json:"size"`
	Stride  uint32 `json:"stride"`
}

func (Buffers) Category() Category { return CatBuffers }

// MetaKind identifies a metadata region layout.
type MetaKind uint32

const (
	MetaHeader MetaKind = iota + 1
)

// HeaderMetaSize is the byte size of the standard per-buffer header
// metadata region (flags, offset, timestamp, dts offset, sequence).
const HeaderMetaSize = 32

// Meta describes one metadata region a buffer should carry.
type Meta struct {
	Kind MetaKind `json:"kind"`
	Size uint32   `json:"size"`
}

func (Meta) Category() Category { return CatMeta }

// SlotKind identifies a host-owned exchange area.
type SlotKind uint32

const (
	// SlotDataExchange is the per-cycle {buffer id, status} slot.
	SlotDataExchange SlotKind = iota + 1
	// SlotControlNotify is the scratch region control envelopes are
	// written into.
	SlotControlNotify
)

func (k SlotKind) String() string {
	switch k {
	case SlotDataExchange:
		return "DataExchange"
	case SlotControlNotify:
		return "ControlNotify"
	default:
		return "unknown"
	}
}

// IO describes one host exchange slot the port supports.
type IO struct {
	Slot SlotKind `json:"slot"`
	Size uint32   `json:"size"`
}

func (IO) Category() Category { return CatIO }

// Opaque carries a negotiated blob that is stored and echoed back
// without interpretation (Latency, Tag).
type Opaque struct {
	Cat  Category `json:"category"`
	Blob []byte   `json:"blob"`
}

func (o Opaque) Category() Category { return o.Cat }

// Unbounded is the open upper end used in advertised ranges.
const Unbounded = math.MaxInt32
