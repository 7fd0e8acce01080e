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

// Package control builds the out-of-band control envelope: a single
// timestamped property-change record carrying the live volume value,
// written into a host-supplied scratch region each cycle.
package control

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Binary envelope layout, big-endian. One fixed header followed by
// exactly one property record per cycle.

// RecordKind identifies the payload of an envelope record.
type RecordKind uint8

const (
	// RecordProperties carries a property id plus a float value.
	RecordProperties RecordKind = 0x01
)

// PropertyID names the property a record updates.
type PropertyID uint32

const (
	// PropVolume is the node output volume, 0..1.
	PropVolume PropertyID = 0x0001
)

// Header is the fixed-size envelope header.
type Header struct {
	Magic     uint32     // 0x4C4D5845 ("LMXE")
	Kind      RecordKind // record kind (1 byte)
	Reserved  [3]uint8   // padding, must be zero
	Timestamp uint64     // unix timestamp microseconds
}

const (
	// EnvelopeMagic validates a scratch region as holding an envelope.
	EnvelopeMagic = 0x4C4D5845 // "LMXE" in big-endian

	// HeaderSize is the serialized size of Header.
	HeaderSize = 16
	// EnvelopeSize is the full serialized envelope: header plus one
	// property record (id + float32 value).
	EnvelopeSize = HeaderSize + 8
)

// Update is one decoded property-change record.
type Update struct {
	Timestamp uint64
	Property  PropertyID
	Value     float32
}

// Encode writes a single property-change envelope into dst and returns
// the number of bytes written. dst smaller than EnvelopeSize fails
// without writing anything.
func Encode(dst []byte, timestamp uint64, prop PropertyID, value float32) (int, error) {
	if len(dst) < EnvelopeSize {
		return 0, fmt.Errorf("scratch region too small: %d bytes (need %d)", len(dst), EnvelopeSize)
	}

	header := Header{
		Magic:     EnvelopeMagic,
		Kind:      RecordProperties,
		Timestamp: timestamp,
	}

	buf := bytes.NewBuffer(dst[:0])
	if err := binary.Write(buf, binary.BigEndian, header); err != nil {
		return 0, fmt.Errorf("failed to write envelope header: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(prop)); err != nil {
		return 0, fmt.Errorf("failed to write property id: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, math.Float32bits(value)); err != nil {
		return 0, fmt.Errorf("failed to write property value: %w", err)
	}

	return EnvelopeSize, nil
}

// Decode parses an envelope previously written by Encode.
func Decode(data []byte) (*Update, error) {
	if len(data) < EnvelopeSize {
		return nil, fmt.Errorf("envelope too small: %d bytes (min %d)", len(data), EnvelopeSize)
	}

	buf := bytes.NewReader(data)
	var header Header
	if err := binary.Read(buf, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read envelope header: %w", err)
	}

	if header.Magic != EnvelopeMagic {
		return nil, fmt.Errorf("invalid envelope magic: 0x%08X (expected 0x%08X)", header.Magic, uint32(EnvelopeMagic))
	}
	if header.Kind != RecordProperties {
		return nil, fmt.Errorf("unknown record kind: 0x%02X", uint8(header.Kind))
	}

	var prop uint32
	if err := binary.Read(buf, binary.BigEndian, &prop); err != nil {
		return nil, fmt.Errorf("failed to read property id: %w", err)
	}
	var bits uint32
	if err := binary.Read(buf, binary.BigEndian, &bits); err != nil {
		return nil, fmt.Errorf("failed to read property value: %w", err)
	}

	return &Update{
		Timestamp: header.Timestamp,
		Property:  PropertyID(prop),
		Value:     math.Float32frombits(bits),
	}, nil
}
