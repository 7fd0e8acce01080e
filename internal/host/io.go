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

// Package host holds the host-owned exchange areas a port is bound to:
// the per-cycle data-exchange slot and the control scratch region.
// Slots follow a single-writer/single-reader protocol; the node writes
// during its dispatch cycle, the host reads between cycles and leaves
// consumed buffer ids in place to be reclaimed.
package host

import "sync/atomic"

// InvalidID marks a data-exchange slot that names no buffer.
const InvalidID = 0xffffffff

// Status is the state the node leaves in the exchange slot after a
// cycle.
type Status uint32

const (
	// StatusOK means the cycle completed without producing data.
	StatusOK Status = iota
	// StatusNeedData means the slot is drained and awaiting the next
	// cycle.
	StatusNeedData
	// StatusHasData means the slot names a freshly generated buffer.
	StatusHasData
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNeedData:
		return "need-data"
	case StatusHasData:
		return "have-data"
	default:
		return "unknown"
	}
}

// IOAreaSize is the advertised byte size of the data-exchange slot
// (buffer id + status).
const IOAreaSize = 8

// IOArea is the data-exchange slot shared between node and host. Both
// fields are packed into one word so a reader never observes a buffer
// id from one cycle paired with a status from another.
type IOArea struct {
	state atomic.Uint64
}

// NewIOArea returns a slot naming no buffer.
func NewIOArea() *IOArea {
	a := &IOArea{}
	a.Store(InvalidID, StatusNeedData)
	return a
}

// Load returns the current buffer id and status.
func (a *IOArea) Load() (uint32, Status) {
	v := a.state.Load()
	return uint32(v >> 32), Status(uint32(v))
}

// Store atomically publishes a buffer id and status pair.
func (a *IOArea) Store(id uint32, status Status) {
	a.state.Store(uint64(id)<<32 | uint64(uint32(status)))
}

// ControlArea is a host-chosen-size scratch region the node writes
// control envelopes into.
type ControlArea struct {
	buf []byte
}

// NewControlArea allocates a scratch region of size bytes.
func NewControlArea(size int) *ControlArea {
	return &ControlArea{buf: make([]byte, size)}
}

// Bytes returns the scratch region.
func (c *ControlArea) Bytes() []byte {
	return c.buf
}
